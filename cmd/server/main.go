package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/database"
	"github.com/tcu-dcda/dcda-advisor/internal/handler"
	"github.com/tcu-dcda/dcda-advisor/internal/logger"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/router"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/validator"
	"github.com/tcu-dcda/dcda-advisor/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "server")
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting DCDA Advisor")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PolicyPath).Msg("Failed to load program policy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "dcda-advisor", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	documentRepo := repository.NewDocumentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	docs := service.NewCachedDocumentStore(documentRepo, rdb, cfg.DocumentCacheTTL, log)
	catalogService := service.NewCatalogService(
		docs,
		advising.NewHolder(nil),
		policy,
		cfg.OfferingsTerm,
		service.NewRedisNotifier(rdb),
		log,
	)
	requirementsService := service.NewRequirementsService(docs, catalogService, log)
	offeringsService := service.NewOfferingsService(docs, catalogService, log)
	advisingService := service.NewAdvisingService(catalogService)
	exportService := service.NewExportService(catalogService, cfg.AdvisorEmail, cfg.AdvisorName, cfg.PDFFontPath)
	analyticsService := service.NewAnalyticsService(service.NewRedisEventQueue(rdb), analyticsRepo, catalogService, log)
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(adminRepo, cfg.AdminEmailAllowlist)

	// ─── Load Catalog Snapshot ────────────────────────────────────────
	// A failed first load is not fatal: the wizard answers 503 until the
	// refresher or a change event brings a snapshot in.
	if err := catalogService.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting without a catalog snapshot")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, adminService, log),
		Wizard:       handler.NewWizardHandler(advisingService, log),
		Catalog:      handler.NewCatalogHandler(advisingService, log),
		Export:       handler.NewExportHandler(exportService, analyticsService, log),
		Analytics:    handler.NewAnalyticsHandler(analyticsService, log),
		Courses:      handler.NewCourseAdminHandler(catalogService, log),
		Requirements: handler.NewRequirementsHandler(requirementsService, log),
		Offerings:    handler.NewOfferingsHandler(offeringsService, log),
		WS:           handler.NewWSHandler(rdb, catalogService, log, cfg.AllowedOrigins),
		System:       handler.NewSystemHandler(rdb, catalogService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	analyticsWorker := worker.NewAnalyticsWorker(pool, rdb, log)
	workers.Add(2)
	go func() {
		defer workers.Done()
		analyticsWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		catalogService.Watch(workerCtx, rdb)
	}()

	refresher := worker.NewSnapshotRefresher(catalogService, cfg.SnapshotRefresh, log)
	if err := refresher.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start snapshot refresher")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, rdb, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler and background workers, letting the analytics
	// worker flush its buffer.
	refresher.Stop()
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
