package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/database"
	"github.com/tcu-dcda/dcda-advisor/internal/logger"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/scraper"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
)

func main() {
	url := flag.String("url", "", "catalog page to scrape")
	file := flag.String("file", "", "saved catalog page to parse instead of fetching")
	category := flag.String("category", string(model.SubjectDigitalCulture), "subject category for scraped courses")
	prefixes := flag.String("prefixes", "", "comma separated course prefixes to keep, e.g. ENGL,WRIT,INSC")
	college := flag.String("college", "", "college name copied onto every scraped course")
	overwrite := flag.Bool("overwrite", false, "refresh titles and descriptions of courses already in the catalog")
	dryRun := flag.Bool("dry-run", false, "print the merged catalog instead of storing it")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "scrape-catalog")

	if (*url == "") == (*file == "") {
		fmt.Println("Error: exactly one of -url or -file is required")
		os.Exit(2)
	}
	if !model.SubjectCategory(*category).Valid() {
		fmt.Printf("Error: unknown category %q\n", *category)
		os.Exit(2)
	}

	opts := scraper.Options{
		Category: model.SubjectCategory(*category),
		College:  *college,
	}
	for _, p := range strings.Split(*prefixes, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			opts.Prefixes = append(opts.Prefixes, p)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ─── Scrape ───────────────────────────────────────────────────────
	var scraped []model.Course
	if *url != "" {
		courses, err := scraper.New(nil, log).Fetch(ctx, *url, opts)
		if err != nil {
			log.Fatal().Err(err).Str("url", *url).Msg("Failed to scrape catalog")
		}
		scraped = courses
	} else {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open catalog page")
		}
		courses, skipped, err := scraper.Parse(f, opts)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("Failed to parse catalog page")
		}
		log.Info().Int("courses", len(courses)).Int("skipped", skipped).Msg("Catalog page parsed")
		scraped = courses
	}

	// ─── Merge into the stored catalog ────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, "dcda-scrape-catalog", log)
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

	existing, err := catalogService.ListCourses(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load the stored catalog")
	}
	merged, res := scraper.Merge(existing, scraped, *overwrite)

	fmt.Printf("Scraped %d courses: %d added, %d updated, %d unchanged\n", len(scraped), res.Added, res.Updated, res.Unchanged)

	if *dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"courses": merged}); err != nil {
			log.Fatal().Err(err).Msg("Failed to print catalog")
		}
		return
	}
	if res.Added == 0 && res.Updated == 0 {
		fmt.Println("Catalog already up to date")
		return
	}
	if err := catalogService.ReplaceCourses(ctx, merged); err != nil {
		log.Fatal().Err(err).Msg("Failed to store catalog")
	}
	fmt.Printf("Stored %d courses\n", len(merged))
}
