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

// WizardHandler serves the advising wizard. Every endpoint runs against the
// live catalog snapshot and answers 503 until one is loaded.
type WizardHandler struct {
	advising *service.AdvisingService
	log      zerolog.Logger
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(advising *service.AdvisingService, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{
		advising: advising,
		log:      log.With().Str("component", "wizard_handler").Logger(),
	}
}

// GetTerm godoc
// GET /api/v1/wizard/term
// Returns the planning term, offerings freshness and graduation choices.
func (h *WizardHandler) GetTerm(c *gin.Context) {
	info, err := h.advising.TermInfo()
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// CategoryCourses godoc
// POST /api/v1/wizard/categories/:category/courses
// Lists the selectable courses of one wizard step.
func (h *WizardHandler) CategoryCourses(c *gin.Context) {
	var req model.CategoryCoursesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	courses, err := h.advising.CategoryCourses(c.Param("category"), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// CheckExclusion godoc
// POST /api/v1/wizard/exclusions/check
func (h *WizardHandler) CheckExclusion(c *gin.Context) {
	var req model.ExclusionCheckRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.advising.CheckExclusion(req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Progress godoc
// POST /api/v1/wizard/progress
func (h *WizardHandler) Progress(c *gin.Context) {
	student, ok := bindStudent(c)
	if !ok {
		return
	}

	p, err := h.advising.Progress(student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Plan godoc
// POST /api/v1/wizard/plan
func (h *WizardHandler) Plan(c *gin.Context) {
	student, ok := bindStudent(c)
	if !ok {
		return
	}

	plan, err := h.advising.Plan(student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// Review godoc
// POST /api/v1/wizard/review
// Runs progress, planning and advisories in one call for the review step.
func (h *WizardHandler) Review(c *gin.Context) {
	student, ok := bindStudent(c)
	if !ok {
		return
	}

	review, err := h.advising.Review(student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// bindStudent binds the wizard state, writing the 400 itself on failure.
func bindStudent(c *gin.Context) (model.StudentData, bool) {
	var student model.StudentData
	if fields := validator.Bind(c, &student); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return student, false
	}
	return student, true
}
