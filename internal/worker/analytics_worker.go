package worker

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/metrics"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
	MaxAttempts  = 5
)

// AnalyticsWorker consumes the analytics event queue and folds each batch
// into the daily counters, the submission log and the course demand table.
type AnalyticsWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewAnalyticsWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AnalyticsWorker {
	return &AnalyticsWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "analytics_worker").Logger(),
	}
}

// Start runs the batching loop until ctx is cancelled. Call in a goroutine.
func (w *AnalyticsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AnalyticsWorker started")

	buffer := make([]*model.AnalyticsEvent, 0, BatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 &&
			(len(buffer) >= BatchSize || time.Since(lastFlush) >= BatchTimeout) {
			w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.AnalyticsEventsQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		var ev model.AnalyticsEvent
		if err := json.Unmarshal([]byte(result[1]), &ev); err != nil {
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed analytics event")
			continue
		}
		buffer = append(buffer, &ev)
	}
}

// ─── Aggregation ────────────────────────────────────────────────────

type counterKey struct {
	day    string
	metric string
	label  string
}

type demandKey struct {
	term string
	kind string
	code string
}

// aggregate is a batch folded into the rows it touches.
type aggregate struct {
	counters    map[counterKey]int64
	demand      map[demandKey]int64
	submissions []*model.Submission
}

func aggregateEvents(batch []*model.AnalyticsEvent) aggregate {
	agg := aggregate{
		counters: map[counterKey]int64{},
		demand:   map[demandKey]int64{},
	}
	for _, ev := range batch {
		day := ev.OccurredAt.Format(time.DateOnly)
		switch ev.Type {
		case model.EventWizardStart:
			agg.counters[counterKey{day, model.MetricWizardStarts, ""}]++
			agg.counters[counterKey{day, model.MetricHourlyStarts, strconv.Itoa(ev.OccurredAt.Hour())}]++
		case model.EventStepVisit:
			agg.counters[counterKey{day, model.MetricStepVisits, ev.Step}]++
		case model.EventExport:
			agg.counters[counterKey{day, model.MetricExports, string(ev.Method)}]++
		case model.EventSubmission:
			if ev.Submission == nil {
				continue
			}
			agg.counters[counterKey{day, model.MetricWizardCompletions, ""}]++
			agg.submissions = append(agg.submissions, ev.Submission)
			for _, code := range ev.Submission.ScheduledCourses {
				agg.demand[demandKey{ev.Submission.DemandTerm, model.DemandScheduled, code}]++
			}
			for _, code := range ev.Submission.CompletedCourses {
				agg.demand[demandKey{ev.Submission.DemandTerm, model.DemandCompleted, code}]++
			}
		}
	}
	return agg
}

// counterColumns flattens the counters into UNNEST arrays in a stable order.
func (a aggregate) counterColumns() (days, metricNames, labels []string, counts []int64) {
	keys := make([]counterKey, 0, len(a.counters))
	for k := range a.counters {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y counterKey) int {
		return cmp.Or(cmp.Compare(x.day, y.day), cmp.Compare(x.metric, y.metric), cmp.Compare(x.label, y.label))
	})
	for _, k := range keys {
		days = append(days, k.day)
		metricNames = append(metricNames, k.metric)
		labels = append(labels, k.label)
		counts = append(counts, a.counters[k])
	}
	return days, metricNames, labels, counts
}

func (a aggregate) demandColumns() (terms, kinds, codes []string, counts []int64) {
	keys := make([]demandKey, 0, len(a.demand))
	for k := range a.demand {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y demandKey) int {
		return cmp.Or(cmp.Compare(x.term, y.term), cmp.Compare(x.kind, y.kind), cmp.Compare(x.code, y.code))
	})
	for _, k := range keys {
		terms = append(terms, k.term)
		kinds = append(kinds, k.kind)
		codes = append(codes, k.code)
		counts = append(counts, a.demand[k])
	}
	return terms, kinds, codes, counts
}

// ─── Persistence ────────────────────────────────────────────────────

// flushSafe attempts one transaction for the whole batch, then one per event,
// then requeues what still fails.
func (w *AnalyticsWorker) flushSafe(ctx context.Context, batch []*model.AnalyticsEvent) {
	if len(batch) == 0 {
		return
	}
	metrics.AnalyticsBatchSize.Observe(float64(len(batch)))

	if err := w.persist(ctx, aggregateEvents(batch)); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk analytics write failed, attempting event-by-event recovery")
		w.fallbackPersist(ctx, batch)
	}
}

func (w *AnalyticsWorker) fallbackPersist(ctx context.Context, batch []*model.AnalyticsEvent) {
	requeueList := make([]*model.AnalyticsEvent, 0)
	for _, ev := range batch {
		if err := w.persist(ctx, aggregateEvents([]*model.AnalyticsEvent{ev})); err != nil {
			w.log.Error().Err(err).Str("type", string(ev.Type)).Msg("Analytics write failed, requeueing")
			requeueList = append(requeueList, ev)
		}
	}
	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

// persist writes an aggregate in a single transaction so a failed batch
// leaves no partial counts behind.
func (w *AnalyticsWorker) persist(ctx context.Context, agg aggregate) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin analytics tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(agg.counters) > 0 {
		days, metricNames, labels, counts := agg.counterColumns()
		_, err := tx.Exec(ctx,
			`INSERT INTO analytics_daily (day, metric, label, count)
			 SELECT u.day::date, u.metric, u.label, u.count
			 FROM UNNEST($1::text[], $2::text[], $3::text[], $4::bigint[]) AS u (day, metric, label, count)
			 ON CONFLICT (day, metric, label) DO UPDATE
			 SET count = analytics_daily.count + EXCLUDED.count`,
			days, metricNames, labels, counts,
		)
		if err != nil {
			return fmt.Errorf("upsert daily counters: %w", err)
		}
	}

	if len(agg.demand) > 0 {
		terms, kinds, codes, counts := agg.demandColumns()
		_, err := tx.Exec(ctx,
			`INSERT INTO course_demand (term_id, kind, course_code, count)
			 SELECT u.term_id, u.kind, u.course_code, u.count
			 FROM UNNEST($1::text[], $2::text[], $3::text[], $4::bigint[]) AS u (term_id, kind, course_code, count)
			 ON CONFLICT (term_id, kind, course_code) DO UPDATE
			 SET count = course_demand.count + EXCLUDED.count`,
			terms, kinds, codes, counts,
		)
		if err != nil {
			return fmt.Errorf("upsert course demand: %w", err)
		}
	}

	if len(agg.submissions) > 0 {
		rows := make([][]any, 0, len(agg.submissions))
		for _, s := range agg.submissions {
			rows = append(rows, []any{
				s.SubmittedAt, string(s.DegreeType), s.ExpectedGraduation,
				s.CompletedCourses, s.ScheduledCourses,
				s.CompletedCount, s.ScheduledCount, s.SpecialCreditCount,
				s.IncludeSummer, s.HasNotes, s.DegreeProgressPct, s.SessionHash,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"analytics_submissions"},
			[]string{
				"submitted_at", "degree_type", "expected_graduation",
				"completed_courses", "scheduled_courses",
				"completed_count", "scheduled_count", "special_credit_count",
				"include_summer", "has_notes", "degree_progress_pct", "session_hash",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy submissions: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// splitRetries bumps the attempt count of each failed event and separates
// the ones that reached maxAttempts.
func splitRetries(items []*model.AnalyticsEvent, maxAttempts int) (retry, dead []*model.AnalyticsEvent) {
	for _, ev := range items {
		ev.Attempts++
		if ev.Attempts >= maxAttempts {
			dead = append(dead, ev)
		} else {
			retry = append(retry, ev)
		}
	}
	return retry, dead
}

func (w *AnalyticsWorker) requeue(ctx context.Context, items []*model.AnalyticsEvent) {
	retry, dead := splitRetries(items, MaxAttempts)

	pipe := w.rdb.Pipeline()
	for _, ev := range retry {
		data, _ := json.Marshal(ev)
		pipe.RPush(ctx, config.WorkerKey.AnalyticsEventsQueue, data)
	}
	for _, ev := range dead {
		data, _ := json.Marshal(ev)
		pipe.RPush(ctx, config.WorkerKey.AnalyticsEventsDeadLetter, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("Failed to requeue analytics events, they are lost")
		return
	}
	if len(dead) > 0 {
		metrics.AnalyticsDeadLettered.Add(float64(len(dead)))
		w.log.Warn().Int("count", len(dead)).Int("attempts", MaxAttempts).Msg("Moved analytics events to the dead letter list")
	}
	w.log.Info().Int("count", len(retry)).Msg("Requeued failed analytics events")
	// Back off so a database outage does not spin the loop.
	time.Sleep(2 * time.Second)
}

func (w *AnalyticsWorker) shutdown(buffer []*model.AnalyticsEvent) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w.flushSafe(shutdownCtx, buffer)
	w.log.Info().Msg("Worker stopped")
}
