package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// Reloader rebuilds the live catalog snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

// SnapshotRefresher reloads the snapshot on a fixed interval. It catches
// writes whose change event was lost and rolls the planning term over when
// the calendar moves past a term boundary.
type SnapshotRefresher struct {
	scheduler *gocron.Scheduler
	reloader  Reloader
	interval  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
}

func NewSnapshotRefresher(reloader Reloader, interval time.Duration, log zerolog.Logger) *SnapshotRefresher {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &SnapshotRefresher{
		scheduler: s,
		reloader:  reloader,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       log.With().Str("component", "snapshot_refresher").Logger(),
	}
}

// Start schedules the refresh job. The first run waits one interval since
// the server loads the snapshot itself on startup.
func (r *SnapshotRefresher) Start() error {
	if r.interval <= 0 {
		r.log.Info().Msg("Snapshot refresh disabled")
		return nil
	}
	if _, err := r.scheduler.Every(r.interval).WaitForSchedule().Do(r.refresh); err != nil {
		return fmt.Errorf("schedule snapshot refresh: %w", err)
	}
	r.scheduler.StartAsync()
	r.log.Info().Dur("interval", r.interval).Msg("Snapshot refresher started")
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (r *SnapshotRefresher) Stop() {
	r.scheduler.Stop()
	r.log.Info().Msg("Snapshot refresher stopped")
}

func (r *SnapshotRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := r.reloader.Reload(ctx); err != nil {
		// Reload already logged the failure and kept the previous snapshot.
		return
	}
	r.log.Debug().Dur("took", time.Since(start)).Msg("Scheduled snapshot refresh done")
}
