package model

import "time"

// AdminRole is the coarse role of a staff account.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "superadmin"
	RoleEditor     AdminRole = "editor"
	RoleViewer     AdminRole = "viewer"
)

// Admin represents a staff user of the admin console.
type Admin struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
