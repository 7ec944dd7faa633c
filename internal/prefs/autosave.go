package prefs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hktrpg/PlanarAlly/internal/scene"
)

// DefaultSchedule saves preferences every thirty seconds.
const DefaultSchedule = "@every 30s"

// Logger defines the logging interface used by the Autosaver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Metrics records autosave runs. Implementations must not block.
type Metrics interface {
	RecordAutosave(saved bool, elapsed time.Duration)
}

// Autosaver periodically captures the store's preferences and writes them
// when they changed since the last save.
type Autosaver struct {
	runner  *scene.Runner
	repo    Repository
	cron    *cron.Cron
	logger  Logger
	metrics Metrics

	mu   sync.Mutex
	last Snapshot
	have bool
}

// NewAutosaver schedules saves with a cron spec, e.g. "@every 30s" or
// "*/5 * * * *". An empty schedule uses DefaultSchedule.
//
// Parameters:
//   - runner: owner of the store whose preferences are captured
//   - repo: where snapshots are written
//   - schedule: cron expression or descriptor
//
// Returns:
//   - *Autosaver: stopped autosaver; call Start
//   - error: if the schedule does not parse
func NewAutosaver(runner *scene.Runner, repo Repository, schedule string) (*Autosaver, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	a := &Autosaver{
		runner: runner,
		repo:   repo,
		cron:   cron.New(),
		logger: noopLogger{},
	}
	if _, err := a.cron.AddFunc(schedule, a.tick); err != nil {
		return nil, fmt.Errorf("invalid autosave schedule %q: %w", schedule, err)
	}
	return a, nil
}

// SetLogger sets the logger for the autosaver.
func (a *Autosaver) SetLogger(logger Logger) {
	a.logger = logger
}

// SetMetrics registers a recorder for scheduled saves.
func (a *Autosaver) SetMetrics(m Metrics) {
	a.metrics = m
}

// Start begins the schedule in the background.
func (a *Autosaver) Start() {
	a.cron.Start()
}

// Stop halts the schedule, waits for a running save and writes a final
// snapshot.
func (a *Autosaver) Stop(ctx context.Context) error {
	select {
	case <-a.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	_, err := a.SaveNow(ctx)
	return err
}

// SaveNow captures and writes the preferences if they changed. It reports
// whether anything was written.
func (a *Autosaver) SaveNow(ctx context.Context) (bool, error) {
	var snap Snapshot
	if err := a.runner.Do(ctx, func(s *scene.Store) { snap = Capture(s) }); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.have && snap == a.last {
		return false, nil
	}
	if err := Save(ctx, a.repo, snap); err != nil {
		return false, err
	}
	a.last, a.have = snap, true
	return true, nil
}

func (a *Autosaver) tick() {
	start := time.Now()
	saved, err := a.SaveNow(context.Background())
	if a.metrics != nil && err == nil {
		a.metrics.RecordAutosave(saved, time.Since(start))
	}
	if err != nil {
		a.logger.Warn("autosave failed", "error", err)
		return
	}
	if saved {
		a.logger.Debug("preferences saved")
	}
}
