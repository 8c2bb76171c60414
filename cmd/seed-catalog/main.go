package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/database"
	"github.com/tcu-dcda/dcda-advisor/internal/logger"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// seedCourses is the layout of courses.json.
type seedCourses struct {
	Courses []model.Course `json:"courses"`
}

func main() {
	dir := flag.String("dir", "./data", "directory holding courses.json, requirements.json and offerings_*.json")
	skipOfferings := flag.Bool("skip-offerings", false, "seed only the catalog and requirements")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "seed-catalog")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, "dcda-seed-catalog", log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	docs := service.NewCachedDocumentStore(repository.NewDocumentRepository(pool), rdb, cfg.DocumentCacheTTL, log)
	catalogService := service.NewCatalogService(docs, advising.NewHolder(nil), advising.DefaultPolicy(), cfg.OfferingsTerm, service.NewRedisNotifier(rdb), log)
	requirementsService := service.NewRequirementsService(docs, catalogService, log)
	offeringsService := service.NewOfferingsService(docs, catalogService, log)

	fmt.Printf("=== Seeding catalog from %s ===\n", *dir)

	// Courses
	var courses seedCourses
	if err := readJSON(filepath.Join(*dir, "courses.json"), &courses); err != nil {
		log.Fatal().Err(err).Msg("Failed to read courses")
	}
	if err := catalogService.ReplaceCourses(ctx, courses.Courses); err != nil {
		log.Fatal().Err(err).Msg("Failed to store courses")
	}
	fmt.Printf("Stored %d courses\n", len(courses.Courses))

	// Requirements
	var reqs model.Requirements
	if err := readJSON(filepath.Join(*dir, "requirements.json"), &reqs); err != nil {
		log.Fatal().Err(err).Msg("Failed to read requirements")
	}
	if err := requirementsService.Replace(ctx, reqs); err != nil {
		log.Fatal().Err(err).Msg("Failed to store requirements")
	}
	fmt.Printf("Stored requirements (%s, %s)\n", reqs.Major.Name, reqs.Minor.Name)

	if *skipOfferings {
		return
	}

	// Offerings, one file per term: offerings_fa26.json
	files, err := filepath.Glob(filepath.Join(*dir, term.DocumentPrefix+"*.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list offerings files")
	}
	for _, file := range files {
		termID := strings.TrimSuffix(filepath.Base(file), ".json")
		t, err := service.ParseTermID(termID)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Skipping offerings file with an unreadable term")
			continue
		}

		var offerings model.CourseOfferings
		if err := readJSON(file, &offerings); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read offerings")
		}
		stored, err := offeringsService.ImportTerm(ctx, t.Key(), offerings)
		if err != nil {
			log.Fatal().Err(err).Str("term", t.Label()).Msg("Failed to store offerings")
		}
		fmt.Printf("Stored %s offerings: %d courses, %d sections\n", t.Label(), len(stored.OfferedCodes), len(stored.Sections))
	}

	fmt.Println("Seeding complete!")
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
