package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/metrics"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// ErrInvalidEvent is returned for events missing their step or method.
var ErrInvalidEvent = errors.New("invalid analytics event")

// recentDayCount is how many days the summary lists.
const recentDayCount = 30

// EventQueue hands analytics events to the persistence worker.
type EventQueue interface {
	Enqueue(ctx context.Context, ev model.AnalyticsEvent) error
}

// RedisEventQueue pushes events onto the analytics list.
type RedisEventQueue struct {
	rdb *redis.Client
}

// NewRedisEventQueue creates a new RedisEventQueue.
func NewRedisEventQueue(rdb *redis.Client) *RedisEventQueue {
	return &RedisEventQueue{rdb: rdb}
}

// Enqueue appends ev to the queue as JSON.
func (q *RedisEventQueue) Enqueue(ctx context.Context, ev model.AnalyticsEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.AnalyticsEventsQueue, raw).Err()
}

// AnalyticsReader is the read side of the analytics tables.
type AnalyticsReader interface {
	RecentDays(ctx context.Context, since time.Time) ([]model.DailyStats, error)
	SubmissionStats(ctx context.Context) (model.SubmissionStats, error)
	CourseDemand(ctx context.Context, termID string) (*model.CourseDemand, error)
}

// AnalyticsService records anonymous wizard events and summarizes them.
// Nothing it stores identifies a student.
type AnalyticsService struct {
	queue   EventQueue
	reader  AnalyticsReader
	catalog *CatalogService
	log     zerolog.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(queue EventQueue, reader AnalyticsReader, catalog *CatalogService, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		queue:   queue,
		reader:  reader,
		catalog: catalog,
		log:     log.With().Str("component", "analytics_service").Logger(),
		now:     time.Now,
	}
}

// Track accepts a counter event from the wizard. Queue failures are logged
// and swallowed so tracking never blocks a student.
func (s *AnalyticsService) Track(ctx context.Context, req model.TrackEventRequest) error {
	ev := model.AnalyticsEvent{Type: req.Type, OccurredAt: s.now()}
	label := ""
	switch req.Type {
	case model.EventStepVisit:
		if req.Step == "" {
			return ErrInvalidEvent
		}
		ev.Step = req.Step
		label = req.Step
	case model.EventExport:
		if req.Method == "" {
			return ErrInvalidEvent
		}
		ev.Method = req.Method
		label = string(req.Method)
	case model.EventWizardStart:
		label = strconv.Itoa(ev.OccurredAt.Hour())
	default:
		return ErrInvalidEvent
	}

	metrics.WizardEventsTotal.WithLabelValues(string(req.Type), label).Inc()
	s.enqueue(ctx, ev)
	return nil
}

// TrackExport counts a server-side export.
func (s *AnalyticsService) TrackExport(ctx context.Context, method model.ExportMethod) {
	_ = s.Track(ctx, model.TrackEventRequest{Type: model.EventExport, Method: method})
}

// RecordSubmission stores the anonymous shape of a finished plan and bumps
// the course demand of the current calendar term.
func (s *AnalyticsService) RecordSubmission(ctx context.Context, student model.StudentData) (model.Submission, error) {
	st := student.Normalized()
	now := s.now()

	pct := 0
	if snap, err := s.catalog.Snapshot(); err == nil {
		pct = snap.ComputeProgress(st).OverallPercent
	}

	sub := BuildSubmission(st, pct, now)
	metrics.WizardEventsTotal.WithLabelValues(string(model.EventSubmission), string(sub.DegreeType)).Inc()
	s.enqueue(ctx, model.AnalyticsEvent{Type: model.EventSubmission, OccurredAt: now, Submission: &sub})
	return sub, nil
}

// BuildSubmission strips a wizard state down to its anonymous fields.
func BuildSubmission(st model.StudentData, progressPct int, now time.Time) model.Submission {
	sum := sha256.Sum256([]byte(uuid.New().String()))
	return model.Submission{
		SubmittedAt:        now.UTC(),
		DegreeType:         st.DegreeType.OrDefault(),
		ExpectedGraduation: st.ExpectedGraduation,
		CompletedCourses:   nonNil(st.CompletedCourses),
		ScheduledCourses:   nonNil(st.ScheduledCourses),
		CompletedCount:     len(st.CompletedCourses),
		ScheduledCount:     len(st.ScheduledCourses),
		SpecialCreditCount: len(st.SpecialCredits),
		IncludeSummer:      st.IncludeSummer,
		HasNotes:           strings.TrimSpace(st.Notes) != "",
		DegreeProgressPct:  advising.Percent(progressPct, 100),
		SessionHash:        hex.EncodeToString(sum[:]),
		DemandTerm:         term.FromDate(now).Key(),
	}
}

func (s *AnalyticsService) enqueue(ctx context.Context, ev model.AnalyticsEvent) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("type", string(ev.Type)).Msg("Dropping analytics event")
	}
}

// Summary builds the admin dashboard payload.
func (s *AnalyticsService) Summary(ctx context.Context) (model.AnalyticsSummary, error) {
	days, err := s.reader.RecentDays(ctx, time.Time{})
	if err != nil {
		return model.AnalyticsSummary{}, err
	}
	stats, err := s.reader.SubmissionStats(ctx)
	if err != nil {
		return model.AnalyticsSummary{}, err
	}
	demand, err := s.reader.CourseDemand(ctx, term.FromDate(s.now()).Key())
	if err != nil && !errors.Is(err, repository.ErrNoDemand) {
		return model.AnalyticsSummary{}, err
	}
	return buildSummary(days, stats, demand), nil
}

// buildSummary aggregates daily counters (newest first) and submission stats.
// Peak hours, exports and the funnel cover every stored day; the day list is
// the last 30, oldest first.
func buildSummary(days []model.DailyStats, stats model.SubmissionStats, demand *model.CourseDemand) model.AnalyticsSummary {
	peak := map[string]int{}
	exports := map[string]int{}
	steps := map[string]int{}
	for _, d := range days {
		for h, n := range d.HourlyStarts {
			peak[h] += n
		}
		for m, n := range d.Exports {
			exports[m] += n
		}
		for id, n := range d.StepVisits {
			steps[id] += n
		}
	}

	funnel := []model.StepFunnel{}
	for _, id := range model.WizardSteps {
		if n := steps[id]; n > 0 {
			funnel = append(funnel, model.StepFunnel{StepID: id, Visits: n})
		}
	}

	recent := days
	if len(recent) > recentDayCount {
		recent = recent[:recentDayCount]
	}
	ordered := make([]model.DailyStats, len(recent))
	for i, d := range recent {
		ordered[len(recent)-1-i] = d
	}

	avg := 0
	if stats.Total > 0 {
		avg = int(float64(stats.ProgressSum)/float64(stats.Total) + 0.5)
	}
	byGrad := stats.ByGraduation
	if byGrad == nil {
		byGrad = map[string]int{}
	}

	return model.AnalyticsSummary{
		TotalSubmissions: stats.Total,
		ByDegreeType: map[string]int{
			string(model.DegreeMajor): stats.Major,
			string(model.DegreeMinor): stats.Minor,
		},
		ByGraduation: byGrad,
		RecentDays:   ordered,
		CourseDemand: demand,
		Insights: model.AnalyticsInsights{
			SummerOptInCount:    stats.SummerOptInCount,
			HasNotesCount:       stats.HasNotesCount,
			AvgDegreeProgress:   avg,
			SpecialCreditsCount: stats.SpecialCreditCount,
		},
		StepFunnel:   funnel,
		PeakHours:    peak,
		ExportCounts: exports,
	}
}
