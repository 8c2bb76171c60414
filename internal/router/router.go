package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/handler"
	"github.com/tcu-dcda/dcda-advisor/internal/middleware"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Wizard       *handler.WizardHandler
	Catalog      *handler.CatalogHandler
	Export       *handler.ExportHandler
	Analytics    *handler.AnalyticsHandler
	Courses      *handler.CourseAdminHandler
	Requirements *handler.RequirementsHandler
	Offerings    *handler.OfferingsHandler
	WS           *handler.WSHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	rdb *redis.Client,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "X-RateLimit-Remaining"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── 0. Public Group (No Auth, Rate Limited) ───────────────────────
	publicLimiter := middleware.NewRateLimiter(rdb, "public", cfg.PublicRateLimit, time.Minute, log)

	publicAPI := router.Group("/api/v1")
	publicAPI.Use(publicLimiter.Middleware(), middleware.NoStore())
	{
		wizard := publicAPI.Group("/wizard")
		wizard.GET("/term", handlers.Wizard.GetTerm)
		wizard.POST("/categories/:category/courses", handlers.Wizard.CategoryCourses)
		wizard.POST("/exclusions/check", handlers.Wizard.CheckExclusion)
		wizard.POST("/progress", handlers.Wizard.Progress)
		wizard.POST("/plan", handlers.Wizard.Plan)
		wizard.POST("/review", handlers.Wizard.Review)

		catalog := publicAPI.Group("/catalog")
		catalog.GET("/courses", handlers.Catalog.ListCourses)
		catalog.GET("/courses/:code", handlers.Catalog.GetCourse)
		catalog.GET("/requirements", handlers.Catalog.GetRequirements)
		catalog.GET("/offerings", handlers.Catalog.GetOfferings)

		publicAPI.POST("/export/:format", handlers.Export.Export)
		publicAPI.POST("/import/csv", handlers.Export.ImportCSV)

		publicAPI.POST("/analytics/events", handlers.Analytics.TrackEvent)
		publicAPI.POST("/analytics/submissions", handlers.Analytics.RecordSubmission)
	}

	// Login gets its own, tighter bucket (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(rdb, "auth", 30, time.Minute, log)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/admin/login", authLimiter.Middleware(), handlers.Auth.AdminLogin)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. WebSocket Group (public offerings feed) ────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/offerings/stream", handlers.WS.OfferingsStream)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())
	{
		// Course catalog
		adminAPI.GET("/courses",
			middleware.RequirePermission(string(model.PermissionCatalogRead)),
			handlers.Courses.ListCourses,
		)
		adminAPI.GET("/courses/:code",
			middleware.RequirePermission(string(model.PermissionCatalogRead)),
			handlers.Courses.GetCourse,
		)
		adminAPI.POST("/courses",
			middleware.RequirePermission(string(model.PermissionCatalogWrite)),
			handlers.Courses.CreateCourse,
		)
		adminAPI.PUT("/courses/:code",
			middleware.RequirePermission(string(model.PermissionCatalogWrite)),
			handlers.Courses.UpdateCourse,
		)
		adminAPI.DELETE("/courses/:code",
			middleware.RequirePermission(string(model.PermissionCatalogWrite)),
			handlers.Courses.DeleteCourse,
		)

		// Degree requirements
		adminAPI.GET("/requirements",
			middleware.RequirePermission(string(model.PermissionRequirementsRead)),
			handlers.Requirements.GetRequirements,
		)
		adminAPI.PUT("/requirements/:degree/:section/categories/:id",
			middleware.RequirePermission(string(model.PermissionRequirementsWrite)),
			handlers.Requirements.SaveCategory,
		)
		adminAPI.DELETE("/requirements/:degree/:section/categories/:id",
			middleware.RequirePermission(string(model.PermissionRequirementsWrite)),
			handlers.Requirements.DeleteCategory,
		)
		adminAPI.POST("/requirements/exclusions",
			middleware.RequirePermission(string(model.PermissionRequirementsWrite)),
			handlers.Requirements.AddExclusionRule,
		)
		adminAPI.PUT("/requirements/exclusions/:index",
			middleware.RequirePermission(string(model.PermissionRequirementsWrite)),
			handlers.Requirements.UpdateExclusionRule,
		)
		adminAPI.DELETE("/requirements/exclusions/:index",
			middleware.RequirePermission(string(model.PermissionRequirementsWrite)),
			handlers.Requirements.DeleteExclusionRule,
		)

		// Term offerings
		adminAPI.GET("/offerings",
			middleware.RequirePermission(string(model.PermissionOfferingsRead)),
			handlers.Offerings.ListTerms,
		)
		adminAPI.POST("/offerings",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.CreateTerm,
		)
		adminAPI.GET("/offerings/:term",
			middleware.RequirePermission(string(model.PermissionOfferingsRead)),
			handlers.Offerings.GetTerm,
		)
		adminAPI.PUT("/offerings/:term",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.ImportTerm,
		)
		adminAPI.POST("/offerings/:term/offered",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.ToggleOffered,
		)
		adminAPI.PUT("/offerings/:term/sections",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.UpsertSection,
		)
		adminAPI.DELETE("/offerings/:term/sections/:code/:section",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.DeleteSection,
		)
		adminAPI.PUT("/active-term",
			middleware.RequirePermission(string(model.PermissionOfferingsWrite)),
			handlers.Offerings.SetActiveTerm,
		)

		// Analytics
		adminAPI.GET("/analytics",
			middleware.RequirePermission(string(model.PermissionAnalyticsRead)),
			handlers.Analytics.GetSummary,
		)

		// System
		adminAPI.GET("/system/status", handlers.System.GetStatus)
		adminAPI.GET("/system/metrics",
			handlers.System.SystemMetricsSSE, // Open to all admins
		)
		adminAPI.POST("/system/reload",
			middleware.RequirePermission(string(model.PermissionSystemReload)),
			handlers.System.Reload,
		)
	}

	return router
}
