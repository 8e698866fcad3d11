package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
)

// TickFunc is a scheduled unit of work. It receives the run-scoped context and
// the wall-clock instant the run was triggered at.
type TickFunc func(ctx context.Context, now time.Time) (domain.TickSummary, error)

// Service drives the periodic ticks off cron specs. Each registered tick runs
// with its own timeout and a run-scoped logger; a tick that is still running
// when its next trigger fires is skipped, not stacked.
type Service struct {
	logger *slog.Logger
	c      *cron.Cron
}

func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		c: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		))),
	}
}

// Register adds a tick under the given cron spec. The returned error is
// non-nil only for an unparseable spec.
func (s *Service) Register(name string, spec string, timeout time.Duration, tick TickFunc) error {
	var running atomic.Bool

	_, err := s.c.AddFunc(spec, func() {
		if !running.CompareAndSwap(false, true) {
			s.logger.Warn("Skipping tick, previous run still in progress", slog.String("tick", name))
			return
		}
		defer running.Store(false)

		s.runOnce(name, timeout, tick)
	})
	if err != nil {
		return fmt.Errorf("failed to register tick %s with spec %q: %w", name, spec, err)
	}

	s.logger.Info("Tick registered", slog.String("tick", name), slog.String("spec", spec))
	return nil
}

func (s *Service) runOnce(name string, timeout time.Duration, tick TickFunc) {
	now := time.Now().UTC()
	runLogger := s.logger.With(
		slog.String("tick", name),
		slog.String("run_id", uuid.NewString()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx = middleware.ContextWithLogger(ctx, runLogger)

	start := time.Now()
	summary, err := tick(ctx, now)
	if err != nil {
		runLogger.Error("Tick failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return
	}

	runLogger.Info("Tick completed",
		slog.Int("total", summary.Total),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
		slog.Duration("duration", time.Since(start)),
	)
}

// Start launches the cron loop in its own goroutine.
func (s *Service) Start() {
	s.c.Start()
	s.logger.Info("Scheduler started")
}

// Stop halts triggering and waits for in-flight ticks to finish.
func (s *Service) Stop() {
	<-s.c.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
