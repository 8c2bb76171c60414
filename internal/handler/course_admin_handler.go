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

// CourseAdminHandler edits the stored course catalog.
type CourseAdminHandler struct {
	catalog *service.CatalogService
	log     zerolog.Logger
}

// NewCourseAdminHandler creates a new CourseAdminHandler.
func NewCourseAdminHandler(catalog *service.CatalogService, log zerolog.Logger) *CourseAdminHandler {
	return &CourseAdminHandler{
		catalog: catalog,
		log:     log.With().Str("component", "course_admin_handler").Logger(),
	}
}

// ListCourses godoc
// GET /api/v1/admin/courses?q=&category=&page=&per_page=
// Returns the stored catalog as written, duplicate codes included. Without
// per_page every matching course is returned on one page.
func (h *CourseAdminHandler) ListCourses(c *gin.Context) {
	category := model.SubjectCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"category": "unknown subject category",
		})
		return
	}

	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}

	courses = service.FilterCourses(courses, c.Query("q"), category)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = max(len(courses), 1)
	}

	total := len(courses)
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses[start:end]}, response.NewPagination(page, perPage, total))
}

// GetCourse godoc
// GET /api/v1/admin/courses/:code
func (h *CourseAdminHandler) GetCourse(c *gin.Context) {
	course, err := h.catalog.GetCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CourseAdminHandler) CreateCourse(c *gin.Context) {
	var req model.Course
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// UpdateCourse godoc
// PUT /api/v1/admin/courses/:code
// The code in the path wins over the one in the body.
func (h *CourseAdminHandler) UpdateCourse(c *gin.Context) {
	var req model.Course
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.catalog.UpdateCourse(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:code
func (h *CourseAdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.catalog.DeleteCourse(c.Request.Context(), c.Param("code")); err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
