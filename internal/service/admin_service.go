package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// ErrUnknownRole is returned when creating an admin with a role that grants nothing.
var ErrUnknownRole = errors.New("unknown admin role")

// AdminStore is the persistence the admin service needs.
type AdminStore interface {
	GetByID(ctx context.Context, id int) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	Create(ctx context.Context, admin *model.Admin) error
}

// AdminService handles admin business logic.
type AdminService struct {
	adminRepo AdminStore
	allowlist []string
}

// NewAdminService creates a new AdminService. An empty allowlist admits every stored admin.
func NewAdminService(adminRepo AdminStore, allowlist []string) *AdminService {
	return &AdminService{adminRepo: adminRepo, allowlist: allowlist}
}

// IsAllowed reports whether email may use the console.
func (s *AdminService) IsAllowed(email string) bool {
	if len(s.allowlist) == 0 {
		return true
	}
	return slices.Contains(s.allowlist, strings.ToLower(strings.TrimSpace(email)))
}

// GetByEmail retrieves an admin by email, refusing emails outside the allowlist.
func (s *AdminService) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if !s.IsAllowed(email) {
		return nil, ErrEmailNotAllowed
	}
	return s.adminRepo.GetByEmail(ctx, email)
}

// GetByID retrieves an admin by ID.
func (s *AdminService) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return s.adminRepo.GetByID(ctx, id)
}

// GetPermissions returns the permission codes of a role.
func (s *AdminService) GetPermissions(role model.AdminRole) []string {
	return model.PermissionsFor(role)
}

// Create creates a new admin.
func (s *AdminService) Create(ctx context.Context, admin *model.Admin) error {
	if _, ok := model.RolePermissions[admin.Role]; !ok {
		return ErrUnknownRole
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return s.adminRepo.Create(ctx, admin)
}
