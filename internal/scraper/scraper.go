// Package scraper pulls course entries out of a published catalog page.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// titlePattern splits a course block title such as
// "ENGL 20833 - Intro to Digital Culture (3)" into code and title.
var titlePattern = regexp.MustCompile(`^([A-Z]{2,5})\s+([0-9]{4,5}[A-Z]?)\s*[-.:–]?\s*(.*?)\s*(?:\(\d+(?:-\d+)?\))?\.?$`)

// Options controls how scraped entries become catalog courses.
type Options struct {
	// Category is assigned to every scraped course whose prefix is not in PrefixCategories.
	Category model.SubjectCategory
	// PrefixCategories maps a course prefix such as "INSC" to its subject category.
	PrefixCategories map[string]model.SubjectCategory
	// College is copied onto every scraped course.
	College string
	// Prefixes, when set, keeps only courses with one of these prefixes.
	Prefixes []string
}

func (o Options) category(prefix string) model.SubjectCategory {
	if c, ok := o.PrefixCategories[prefix]; ok {
		return c
	}
	return o.Category
}

// Scraper fetches and parses catalog pages.
type Scraper struct {
	client *http.Client
	log    zerolog.Logger
}

// New creates a Scraper. A nil client gets a 30s default.
func New(client *http.Client, log zerolog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{
		client: client,
		log:    log.With().Str("component", "scraper").Logger(),
	}
}

// Fetch downloads url and parses its course blocks.
func (s *Scraper) Fetch(ctx context.Context, url string, opts Options) ([]model.Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "dcda-advisor-catalog-scraper")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog page: unexpected status %s", resp.Status)
	}

	courses, skipped, err := Parse(resp.Body, opts)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("url", url).Int("courses", len(courses)).Int("skipped", skipped).Msg("Catalog page scraped")
	return courses, nil
}

// Parse reads course blocks ("div.courseblock" with a "courseblocktitle" and
// "courseblockdesc") from an HTML catalog page. It returns the courses in page
// order, first occurrence wins, and the number of blocks it could not read.
func Parse(r io.Reader, opts Options) ([]model.Course, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse catalog html: %w", err)
	}

	var (
		courses []model.Course
		skipped int
		seen    = map[string]struct{}{}
	)
	doc.Find("div.courseblock").Each(func(_ int, block *goquery.Selection) {
		title := normalizeSpace(block.Find(".courseblocktitle").First().Text())
		m := titlePattern.FindStringSubmatch(title)
		if m == nil || m[3] == "" {
			skipped++
			return
		}

		prefix := m[1]
		if len(opts.Prefixes) > 0 && !slices.Contains(opts.Prefixes, prefix) {
			return
		}
		code := prefix + " " + m[2]
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}

		courses = append(courses, model.Course{
			Code:        code,
			Title:       m[3],
			Category:    opts.category(prefix),
			College:     opts.College,
			Description: normalizeSpace(block.Find(".courseblockdesc").First().Text()),
		})
	})
	return courses, skipped, nil
}

// normalizeSpace collapses runs of whitespace, including the non-breaking
// spaces catalogs put between prefix and number.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MergeResult counts what Merge did.
type MergeResult struct {
	Added     int
	Updated   int
	Unchanged int
}

// Merge folds scraped courses into an existing catalog. New codes are
// appended. Existing courses keep their category; with overwrite set their
// title, description and college are refreshed from the scrape.
func Merge(existing, scraped []model.Course, overwrite bool) ([]model.Course, MergeResult) {
	out := slices.Clone(existing)
	index := make(map[string]int, len(out))
	for i, c := range out {
		if _, ok := index[c.Code]; !ok {
			index[c.Code] = i
		}
	}

	var res MergeResult
	for _, c := range scraped {
		i, ok := index[c.Code]
		if !ok {
			index[c.Code] = len(out)
			out = append(out, c)
			res.Added++
			continue
		}
		cur := out[i]
		if !overwrite || (cur.Title == c.Title && cur.Description == c.Description && (c.College == "" || cur.College == c.College)) {
			res.Unchanged++
			continue
		}
		cur.Title = c.Title
		cur.Description = c.Description
		if c.College != "" {
			cur.College = c.College
		}
		out[i] = cur
		res.Updated++
	}
	return out, res
}
