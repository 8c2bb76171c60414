package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/validator"
)

// RequirementsHandler edits the requirements document.
type RequirementsHandler struct {
	requirements *service.RequirementsService
	log          zerolog.Logger
}

// NewRequirementsHandler creates a new RequirementsHandler.
func NewRequirementsHandler(requirements *service.RequirementsService, log zerolog.Logger) *RequirementsHandler {
	return &RequirementsHandler{
		requirements: requirements,
		log:          log.With().Str("component", "requirements_handler").Logger(),
	}
}

// GetRequirements godoc
// GET /api/v1/admin/requirements
func (h *RequirementsHandler) GetRequirements(c *gin.Context) {
	reqs, err := h.requirements.Get(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

// SaveCategory godoc
// PUT /api/v1/admin/requirements/:degree/:section/categories/:id
// Creates or replaces a category in the major or minor tree.
func (h *RequirementsHandler) SaveCategory(c *gin.Context) {
	var req model.SaveCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if fields := categoryRuleErrors(req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cat, err := h.requirements.SaveCategory(
		c.Request.Context(),
		model.DegreeType(c.Param("degree")),
		model.RequirementSectionName(c.Param("section")),
		req.Category(c.Param("id")),
	)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

// categoryRuleErrors checks the fields that only one rule kind uses.
func categoryRuleErrors(req model.SaveCategoryRequest) map[string]string {
	fields := map[string]string{}
	switch req.Kind {
	case model.KindEnumerated:
		if len(req.Courses) == 0 {
			fields["courses"] = "courses is required for enumerated categories"
		}
		for _, code := range req.Courses {
			if !validator.IsCourseCode(code) {
				fields["courses"] = code + " is not a course code"
				break
			}
		}
	case model.KindBucket:
		if !req.Subject.Valid() {
			fields["subject"] = "subject must be a catalog subject category"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// DeleteCategory godoc
// DELETE /api/v1/admin/requirements/:degree/:section/categories/:id
func (h *RequirementsHandler) DeleteCategory(c *gin.Context) {
	err := h.requirements.DeleteCategory(
		c.Request.Context(),
		model.DegreeType(c.Param("degree")),
		model.RequirementSectionName(c.Param("section")),
		c.Param("id"),
	)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// AddExclusionRule godoc
// POST /api/v1/admin/requirements/exclusions
func (h *RequirementsHandler) AddExclusionRule(c *gin.Context) {
	var req model.MutualExclusionRule
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	index, err := h.requirements.AddExclusionRule(c.Request.Context(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"index": index, "rule": req})
}

// UpdateExclusionRule godoc
// PUT /api/v1/admin/requirements/exclusions/:index
func (h *RequirementsHandler) UpdateExclusionRule(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.MutualExclusionRule
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.requirements.UpdateExclusionRule(c.Request.Context(), index, req); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"index": index, "rule": req})
}

// DeleteExclusionRule godoc
// DELETE /api/v1/admin/requirements/exclusions/:index
func (h *RequirementsHandler) DeleteExclusionRule(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.requirements.DeleteExclusionRule(c.Request.Context(), index); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
