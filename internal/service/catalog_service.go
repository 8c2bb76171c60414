package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/metrics"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

// Catalog errors.
var (
	ErrCatalogUnavailable = errors.New("catalog snapshot is not loaded")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("course already exists")
)

// ChangeNotifier announces catalog document writes to every server instance.
type ChangeNotifier interface {
	Notify(ctx context.Context, ev ws.ChangeEvent) error
}

// RedisNotifier publishes change events on the offerings channel.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier creates a new RedisNotifier.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Notify publishes ev as JSON.
func (n *RedisNotifier) Notify(ctx context.Context, ev ws.ChangeEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return n.rdb.Publish(ctx, config.CacheKey.OfferingsUpdatedChannel(), raw).Err()
}

// coursesDocument is the body of the courses document.
type coursesDocument struct {
	Courses []model.Course `json:"courses"`
}

// CatalogService owns the live advising snapshot: it builds it from the
// document store, swaps it atomically, and edits the course catalog.
type CatalogService struct {
	docs     DocumentStore
	holder   *advising.Holder
	policy   advising.Policy
	pinned   string
	notifier ChangeNotifier
	log      zerolog.Logger
	now      func() time.Time

	reloadMu sync.Mutex
}

// NewCatalogService creates a new CatalogService. pinnedTerm (OFFERINGS_TERM)
// overrides the stored active term when set. notifier may be nil.
func NewCatalogService(
	docs DocumentStore,
	holder *advising.Holder,
	policy advising.Policy,
	pinnedTerm string,
	notifier ChangeNotifier,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		docs:     docs,
		holder:   holder,
		policy:   policy.WithDefaults(),
		pinned:   pinnedTerm,
		notifier: notifier,
		log:      log.With().Str("component", "catalog_service").Logger(),
		now:      time.Now,
	}
}

// Snapshot returns the live snapshot.
func (s *CatalogService) Snapshot() (*advising.Snapshot, error) {
	snap := s.holder.Load()
	if snap == nil {
		return nil, ErrCatalogUnavailable
	}
	return snap, nil
}

// Reload rebuilds the snapshot from the store. On failure the previous
// snapshot stays live.
func (s *CatalogService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap, err := s.build(ctx)
	if err != nil {
		metrics.SnapshotReloads.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Bool("has_snapshot", s.holder.Load() != nil).Msg("Snapshot reload failed, keeping last good snapshot")
		return err
	}

	s.holder.Store(snap)
	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	metrics.SnapshotOfferedCourses.Set(float64(len(snap.Offerings().OfferedCodes)))

	s.log.Info().
		Int("courses", len(snap.Courses())).
		Str("term", snap.CurrentTerm().Label()).
		Int("offered", len(snap.Offerings().OfferedCodes)).
		Msg("Snapshot loaded")
	return nil
}

func (s *CatalogService) build(ctx context.Context) (*advising.Snapshot, error) {
	var courses coursesDocument
	if err := getJSON(ctx, s.docs, model.DocCourses, &courses); err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	var reqs model.Requirements
	if err := getJSON(ctx, s.docs, model.DocRequirements, &reqs); err != nil {
		return nil, fmt.Errorf("load requirements: %w", err)
	}

	active, err := s.ActiveTerm(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve active term: %w", err)
	}

	offerings, err := s.loadOfferings(ctx, active)
	if err != nil {
		return nil, err
	}

	return advising.NewSnapshot(courses.Courses, reqs, offerings, s.policy), nil
}

// ActiveTerm resolves the term the wizard plans from: the pinned term, then
// the active_term document, then the latest stored term that has started by
// the calendar (or the earliest stored one), then the policy default.
func (s *CatalogService) ActiveTerm(ctx context.Context) (term.Term, error) {
	if s.pinned != "" {
		t, err := term.Parse(s.pinned)
		if err == nil {
			return t, nil
		}
		s.log.Warn().Str("offerings_term", s.pinned).Msg("Ignoring unparseable pinned offerings term")
	}

	var at model.ActiveTerm
	err := getJSON(ctx, s.docs, model.DocActiveTerm, &at)
	switch {
	case err == nil:
		if t, err := term.Parse(at.TermID); err == nil {
			return t, nil
		}
		s.log.Warn().Str("term_id", at.TermID).Msg("Ignoring unparseable active term document")
	case !isNotFound(err):
		return term.Term{}, err
	}

	stored, err := s.storedTerms(ctx)
	if err != nil {
		return term.Term{}, err
	}
	if len(stored) > 0 {
		calendar := term.FromDate(s.now())
		pick := stored[0]
		for _, t := range stored {
			if !t.After(calendar) {
				pick = t
			}
		}
		return pick, nil
	}

	return term.Parse(s.policy.DefaultStartTerm)
}

// storedTerms lists the terms that have an offerings document, oldest first.
func (s *CatalogService) storedTerms(ctx context.Context) ([]term.Term, error) {
	docs, err := s.docs.ListByPrefix(ctx, model.ConfigCollection, term.DocumentPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]term.Term, 0, len(docs))
	for _, d := range docs {
		t, err := term.ParseKey(d.ID)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, term.Term.Compare)
	return out, nil
}

func (s *CatalogService) loadOfferings(ctx context.Context, t term.Term) (model.CourseOfferings, error) {
	var o model.CourseOfferings
	err := getJSON(ctx, s.docs, t.DocumentID(), &o)
	if isNotFound(err) {
		s.log.Warn().Str("term", t.Label()).Msg("No offerings document for the active term, nothing is offered")
		return emptyOfferings(t), nil
	}
	if err != nil {
		return model.CourseOfferings{}, fmt.Errorf("load offerings %s: %w", t.Key(), err)
	}
	if o.Term == "" {
		o.Term = t.Label()
	}
	return o, nil
}

func emptyOfferings(t term.Term) model.CourseOfferings {
	return model.CourseOfferings{
		Term:         t.Label(),
		OfferedCodes: []string{},
		Sections:     []model.CourseSection{},
	}
}

// Watch reloads the snapshot whenever a change event arrives on the
// offerings channel. It blocks until ctx is cancelled.
func (s *CatalogService) Watch(ctx context.Context, rdb *redis.Client) {
	sub := rdb.Subscribe(ctx, config.CacheKey.OfferingsUpdatedChannel())
	defer sub.Close()

	s.log.Info().Msg("Watching for catalog changes")
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev ws.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.log.Warn().Err(err).Msg("Ignoring malformed change event")
				continue
			}
			s.log.Debug().Str("event", string(ev.Event)).Str("term_id", ev.TermID).Msg("Change event received")
			_ = s.Reload(ctx)
		}
	}
}

// publish announces a write. Delivery failures are logged; the periodic
// refresher picks the change up later.
func (s *CatalogService) publish(ctx context.Context, ev ws.ChangeEvent) {
	if s.notifier == nil {
		return
	}
	ev.At = s.now().UTC()
	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", string(ev.Event)).Msg("Failed to publish change event")
	}
}

// documentChanged reloads this instance and tells the others.
func (s *CatalogService) documentChanged(ctx context.Context, ev ws.ChangeEvent) {
	_ = s.Reload(ctx)
	s.publish(ctx, ev)
}

// offeringsChanged applies a term's new offerings to the live snapshot when
// that term is the one being planned from, then tells the other instances.
func (s *CatalogService) offeringsChanged(ctx context.Context, t term.Term, o model.CourseOfferings) {
	if snap := s.holder.Load(); snap != nil && snap.CurrentTerm() == t {
		s.holder.ReplaceOfferings(o)
		metrics.SnapshotOfferedCourses.Set(float64(len(o.OfferedCodes)))
	}
	s.publish(ctx, ws.ChangeEvent{Event: ws.EventOfferingsUpdated, TermID: t.Key(), Term: t.Label()})
}

// ─── Course catalog ─────────────────────────────────────────────────

// ListCourses returns the stored catalog as written, duplicates included.
func (s *CatalogService) ListCourses(ctx context.Context) ([]model.Course, error) {
	var doc coursesDocument
	err := getJSON(ctx, s.docs, model.DocCourses, &doc)
	if isNotFound(err) {
		return []model.Course{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Courses == nil {
		doc.Courses = []model.Course{}
	}
	return doc.Courses, nil
}

// FilterCourses keeps courses whose code or title contains q, ignoring case,
// and whose category matches when one is given.
func FilterCourses(courses []model.Course, q string, category model.SubjectCategory) []model.Course {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" && category == "" {
		return courses
	}
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if category != "" && c.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(c.Code), q) && !strings.Contains(strings.ToLower(c.Title), q) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// GetCourse returns the first stored course with code.
func (s *CatalogService) GetCourse(ctx context.Context, code string) (model.Course, error) {
	courses, err := s.ListCourses(ctx)
	if err != nil {
		return model.Course{}, err
	}
	i := slices.IndexFunc(courses, func(c model.Course) bool { return c.Code == code })
	if i < 0 {
		return model.Course{}, ErrCourseNotFound
	}
	return courses[i], nil
}

// CreateCourse appends a course to the catalog.
func (s *CatalogService) CreateCourse(ctx context.Context, c model.Course) (model.Course, error) {
	_, err := updateJSON(ctx, s.docs, model.DocCourses, func(doc *coursesDocument, _ bool) error {
		if slices.ContainsFunc(doc.Courses, func(e model.Course) bool { return e.Code == c.Code }) {
			return ErrCourseExists
		}
		doc.Courses = append(doc.Courses, c)
		return nil
	})
	if err != nil {
		return model.Course{}, err
	}

	s.log.Info().Str("code", c.Code).Msg("Course created")
	s.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventCatalogUpdated})
	return c, nil
}

// UpdateCourse replaces the course stored under code. The code itself does not change.
func (s *CatalogService) UpdateCourse(ctx context.Context, code string, c model.Course) (model.Course, error) {
	c.Code = code
	_, err := updateJSON(ctx, s.docs, model.DocCourses, func(doc *coursesDocument, _ bool) error {
		i := slices.IndexFunc(doc.Courses, func(e model.Course) bool { return e.Code == code })
		if i < 0 {
			return ErrCourseNotFound
		}
		doc.Courses[i] = c
		return nil
	})
	if err != nil {
		return model.Course{}, err
	}

	s.log.Info().Str("code", code).Msg("Course updated")
	s.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventCatalogUpdated})
	return c, nil
}

// DeleteCourse removes every catalog entry with code.
func (s *CatalogService) DeleteCourse(ctx context.Context, code string) error {
	_, err := updateJSON(ctx, s.docs, model.DocCourses, func(doc *coursesDocument, _ bool) error {
		before := len(doc.Courses)
		doc.Courses = slices.DeleteFunc(doc.Courses, func(e model.Course) bool { return e.Code == code })
		if len(doc.Courses) == before {
			return ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("code", code).Msg("Course deleted")
	s.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventCatalogUpdated})
	return nil
}

// ReplaceCourses overwrites the whole catalog. Used by the seed and scrape tools.
func (s *CatalogService) ReplaceCourses(ctx context.Context, courses []model.Course) error {
	raw, err := json.Marshal(coursesDocument{Courses: courses})
	if err != nil {
		return fmt.Errorf("marshal courses: %w", err)
	}
	if _, err := s.docs.Put(ctx, model.ConfigCollection, model.DocCourses, raw); err != nil {
		return err
	}
	s.publish(ctx, ws.ChangeEvent{Event: ws.EventCatalogUpdated})
	return nil
}
