package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/validator"
)

// OfferingsHandler edits per-term offerings. Terms are addressed by key
// ("fa26") in the path.
type OfferingsHandler struct {
	offerings *service.OfferingsService
	log       zerolog.Logger
}

// NewOfferingsHandler creates a new OfferingsHandler.
func NewOfferingsHandler(offerings *service.OfferingsService, log zerolog.Logger) *OfferingsHandler {
	return &OfferingsHandler{
		offerings: offerings,
		log:       log.With().Str("component", "offerings_handler").Logger(),
	}
}

// ListTerms godoc
// GET /api/v1/admin/offerings
func (h *OfferingsHandler) ListTerms(c *gin.Context) {
	terms, err := h.offerings.ListTerms(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"terms": terms})
}

// CreateTerm godoc
// POST /api/v1/admin/offerings
func (h *OfferingsHandler) CreateTerm(c *gin.Context) {
	var req model.CreateTermRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	o, err := h.offerings.CreateTerm(c.Request.Context(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

// GetTerm godoc
// GET /api/v1/admin/offerings/:term
func (h *OfferingsHandler) GetTerm(c *gin.Context) {
	o, err := h.offerings.GetTerm(c.Request.Context(), c.Param("term"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// ImportTerm godoc
// PUT /api/v1/admin/offerings/:term
// Replaces a term's offerings wholesale, creating the term if needed.
func (h *OfferingsHandler) ImportTerm(c *gin.Context) {
	var req model.CourseOfferings
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	o, err := h.offerings.ImportTerm(c.Request.Context(), c.Param("term"), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// ToggleOffered godoc
// POST /api/v1/admin/offerings/:term/offered
func (h *OfferingsHandler) ToggleOffered(c *gin.Context) {
	var req model.ToggleOfferedRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	offered, err := h.offerings.ToggleOffered(c.Request.Context(), c.Param("term"), req.Code)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"code": req.Code, "offered": offered})
}

// UpsertSection godoc
// PUT /api/v1/admin/offerings/:term/sections
func (h *OfferingsHandler) UpsertSection(c *gin.Context) {
	var req model.CourseSection
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	o, err := h.offerings.UpsertSection(c.Request.Context(), c.Param("term"), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

// DeleteSection godoc
// DELETE /api/v1/admin/offerings/:term/sections/:code/:section
func (h *OfferingsHandler) DeleteSection(c *gin.Context) {
	err := h.offerings.DeleteSection(c.Request.Context(), c.Param("term"), c.Param("code"), c.Param("section"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// SetActiveTerm godoc
// PUT /api/v1/admin/active-term
func (h *OfferingsHandler) SetActiveTerm(c *gin.Context) {
	var req model.SetActiveTermRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, err := h.offerings.SetActiveTerm(c.Request.Context(), req.TermID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"term_id": t.Key(), "term": t.Label()})
}
