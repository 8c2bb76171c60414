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

// AnalyticsHandler accepts anonymous wizard events and serves the summary.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	log       zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		log:       log.With().Str("component", "analytics_handler").Logger(),
	}
}

// TrackEvent godoc
// POST /api/v1/analytics/events
func (h *AnalyticsHandler) TrackEvent(c *gin.Context) {
	var req model.TrackEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.analytics.Track(c.Request.Context(), req); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{})
}

// RecordSubmission godoc
// POST /api/v1/analytics/submissions
// Stores the anonymous shape of a finished plan. Name, email and notes are
// dropped before anything is queued.
func (h *AnalyticsHandler) RecordSubmission(c *gin.Context) {
	student, ok := bindStudent(c)
	if !ok {
		return
	}

	sub, err := h.analytics.RecordSubmission(c.Request.Context(), student)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"session_hash": sub.SessionHash})
}

// GetSummary godoc
// GET /api/v1/admin/analytics
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
