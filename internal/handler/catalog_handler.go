package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

// CatalogHandler exposes the live snapshot's documents read-only.
type CatalogHandler struct {
	advising *service.AdvisingService
	log      zerolog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(advising *service.AdvisingService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		advising: advising,
		log:      log.With().Str("component", "catalog_handler").Logger(),
	}
}

// ListCourses godoc
// GET /api/v1/catalog/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.advising.Courses()
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/catalog/courses/:code
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.advising.Course(c.Param("code"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// GetRequirements godoc
// GET /api/v1/catalog/requirements
func (h *CatalogHandler) GetRequirements(c *gin.Context) {
	reqs, err := h.advising.Requirements()
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

// GetOfferings godoc
// GET /api/v1/catalog/offerings
// Returns the offerings of the term the wizard plans from.
func (h *CatalogHandler) GetOfferings(c *gin.Context) {
	o, err := h.advising.Offerings()
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}
