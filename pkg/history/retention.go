package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"themelab-hq/triton/pkg/telemetry/logging"
)

// RetentionConfig bounds the history database.
type RetentionConfig struct {
	// MaxAgeDays deletes runs older than this. Zero disables pruning by
	// age.
	MaxAgeDays int

	// MaxRuns keeps at most this many runs, deleting the oldest. Zero
	// means unlimited.
	MaxRuns int64

	// Schedule is the cron expression the Scheduler prunes on.
	Schedule string
}

// Pruner deletes runs that fall outside the retention bounds.
type Pruner struct {
	store  *Store
	config RetentionConfig
	log    *logging.Logger
}

// NewPruner creates a pruner over the store.
func NewPruner(store *Store, cfg RetentionConfig, log *logging.Logger) *Pruner {
	if log == nil {
		log = logging.Discard()
	}
	return &Pruner{store: store, config: cfg, log: log}
}

// Prune applies both retention bounds and returns the number of deleted
// runs.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var deleted int64

	if p.config.MaxAgeDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.MaxAgeDays).Unix()
		res, err := p.store.db.ExecContext(ctx,
			"DELETE FROM runs WHERE started_at < ?", cutoff)
		if err != nil {
			return deleted, fmt.Errorf("pruning by age: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	if p.config.MaxRuns > 0 {
		res, err := p.store.db.ExecContext(ctx, `
DELETE FROM runs WHERE id NOT IN (
	SELECT id FROM runs ORDER BY started_at DESC LIMIT ?
)`, p.config.MaxRuns)
		if err != nil {
			return deleted, fmt.Errorf("pruning by count: %w", err)
		}
		n, _ := res.RowsAffected()
		deleted += n
	}

	return deleted, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	log     *logging.Logger
	running bool
}

// NewScheduler creates a scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		log:    pruner.log,
	}
}

// Start schedules pruning per the retention config. An empty schedule
// leaves the scheduler idle. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.Schedule
	if schedule == "" {
		s.log.Info("retention schedule not configured, pruning disabled")
		return nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.runPruning(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.log.Info("retention scheduler started",
		"schedule", schedule,
		"max_age_days", s.pruner.config.MaxAgeDays,
		"max_runs", s.pruner.config.MaxRuns,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.log.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.log.Info("scheduled pruning completed", "deleted", deleted)
	}
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
