package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// AnalyticsRepository reads the aggregated analytics tables written by the analytics worker.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// RecentDays returns the daily counters from since (inclusive), newest first.
func (r *AnalyticsRepository) RecentDays(ctx context.Context, since time.Time) ([]model.DailyStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, metric, label, count FROM analytics_daily
		 WHERE day >= $1::date
		 ORDER BY day DESC, metric, label`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	var days []model.DailyStats
	byDate := map[string]int{}
	for rows.Next() {
		var (
			day    time.Time
			metric string
			label  string
			count  int
		)
		if err := rows.Scan(&day, &metric, &label, &count); err != nil {
			return nil, err
		}

		date := day.Format(time.DateOnly)
		i, ok := byDate[date]
		if !ok {
			i = len(days)
			byDate[date] = i
			days = append(days, model.DailyStats{
				Date:         date,
				HourlyStarts: map[string]int{},
				StepVisits:   map[string]int{},
				Exports:      map[string]int{},
			})
		}
		d := &days[i]

		switch metric {
		case model.MetricWizardStarts:
			d.WizardStarts += count
		case model.MetricWizardCompletions:
			d.WizardCompletions += count
		case model.MetricHourlyStarts:
			d.HourlyStarts[label] += count
		case model.MetricStepVisits:
			d.StepVisits[label] += count
		case model.MetricExports:
			d.Exports[label] += count
		}
	}
	return days, rows.Err()
}

// SubmissionStats aggregates every anonymous submission.
func (r *AnalyticsRepository) SubmissionStats(ctx context.Context) (model.SubmissionStats, error) {
	s := model.SubmissionStats{ByGraduation: map[string]int{}}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE degree_type = 'major'),
		        COUNT(*) FILTER (WHERE degree_type = 'minor'),
		        COUNT(*) FILTER (WHERE include_summer),
		        COUNT(*) FILTER (WHERE has_notes),
		        COUNT(*) FILTER (WHERE special_credit_count > 0),
		        COALESCE(SUM(degree_progress_pct), 0)
		 FROM analytics_submissions`,
	).Scan(&s.Total, &s.Major, &s.Minor, &s.SummerOptInCount, &s.HasNotesCount, &s.SpecialCreditCount, &s.ProgressSum)
	if err != nil {
		return s, fmt.Errorf("aggregate submissions: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT COALESCE(NULLIF(expected_graduation, ''), 'Unknown') AS grad, COUNT(*)
		 FROM analytics_submissions
		 GROUP BY grad`,
	)
	if err != nil {
		return s, fmt.Errorf("group submissions by graduation: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			grad  string
			count int
		)
		if err := rows.Scan(&grad, &count); err != nil {
			return s, err
		}
		s.ByGraduation[grad] = count
	}
	return s, rows.Err()
}

// ErrNoDemand is returned when a term has no recorded course demand.
var ErrNoDemand = errors.New("no course demand recorded")

// CourseDemand returns the scheduled and completed counts of one term key.
func (r *AnalyticsRepository) CourseDemand(ctx context.Context, termID string) (*model.CourseDemand, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, course_code, count FROM course_demand WHERE term_id = $1`,
		termID,
	)
	if err != nil {
		return nil, fmt.Errorf("query course demand: %w", err)
	}
	defer rows.Close()

	d := &model.CourseDemand{Term: termID, Scheduled: map[string]int{}, Completed: map[string]int{}}
	found := false
	for rows.Next() {
		var (
			kind  string
			code  string
			count int
		)
		if err := rows.Scan(&kind, &code, &count); err != nil {
			return nil, err
		}
		found = true
		if kind == model.DemandCompleted {
			d.Completed[code] = count
		} else {
			d.Scheduled[code] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoDemand
	}
	return d, nil
}
