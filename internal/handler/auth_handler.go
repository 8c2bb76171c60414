package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/middleware"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/validator"
)

// AuthHandler handles admin console authentication.
type AuthHandler struct {
	authService  *service.AuthService
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, adminService *service.AdminService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		adminService: adminService,
		log:          log.With().Str("component", "auth_handler").Logger(),
	}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Validates email + password against the allowlist and admin table, returns JWT.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotAllowed) {
			h.log.Warn().Str("email", req.Email).Msg("Login attempt outside allowlist")
			response.Fail(c, http.StatusForbidden, response.ErrEmailNotAllowed)
			return
		}
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	permissions := h.adminService.GetPermissions(admin.Role)
	token, err := h.authService.GenerateAdminToken(admin.ID, admin.Role, permissions)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":       token,
		"admin":       admin,
		"permissions": permissions,
	})
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
// Returns the profile of the currently authenticated admin.
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"admin":       admin,
		"permissions": h.adminService.GetPermissions(admin.Role),
	})
}
