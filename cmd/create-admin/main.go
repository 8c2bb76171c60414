package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/database"
	"github.com/tcu-dcda/dcda-advisor/internal/logger"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "create-admin")

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "dcda-create-admin", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	adminService := service.NewAdminService(adminRepo, cfg.AdminEmailAllowlist)
	authService := service.NewAuthService(cfg)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}
	if !adminService.IsAllowed(email) {
		fmt.Println("Warning: this email is not on ADMIN_EMAIL_ALLOWLIST and will not be able to log in")
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// Role
	fmt.Printf("Enter Role (%s, %s, %s; default %s): ",
		model.RoleSuperAdmin, model.RoleEditor, model.RoleViewer, model.RoleEditor)
	roleStr, _ := reader.ReadString('\n')
	role := model.AdminRole(strings.TrimSpace(roleStr))
	if role == "" {
		role = model.RoleEditor
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newAdmin := &model.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := adminService.Create(ctx, newAdmin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d and role %s\n", newAdmin.Name, newAdmin.Email, newAdmin.ID, newAdmin.Role)
}
