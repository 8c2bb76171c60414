package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

// serviceErrors maps service sentinels to HTTP statuses and error codes.
var serviceErrors = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrCatalogUnavailable, http.StatusServiceUnavailable, response.ErrCatalogUnavailable},
	{service.ErrPDFFontMissing, http.StatusServiceUnavailable, response.ErrExportUnavailable},
	{service.ErrUnknownCourse, http.StatusNotFound, response.ErrUnknownCourse},
	{service.ErrCourseNotFound, http.StatusNotFound, response.ErrUnknownCourse},
	{service.ErrCategoryNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrRuleNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrRequirementsAbsent, http.StatusNotFound, response.ErrNotFound},
	{service.ErrTermNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrSectionNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrCourseExists, http.StatusConflict, response.ErrConflict},
	{service.ErrTermExists, http.StatusConflict, response.ErrConflict},
	{service.ErrUnknownDegree, http.StatusBadRequest, response.ErrUnknownDegree},
	{service.ErrUnknownSection, http.StatusBadRequest, response.ErrValidation},
	{service.ErrInvalidTerm, http.StatusBadRequest, response.ErrInvalidTerm},
	{service.ErrInvalidEvent, http.StatusBadRequest, response.ErrValidation},
	{service.ErrInvalidCSV, http.StatusBadRequest, response.ErrInvalidPayload},
	{service.ErrUnsupportedType, http.StatusBadRequest, response.ErrUnsupportedFormat},
}

// failService writes the response for a service error. Errors without a
// mapping are logged and reported as 500.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
