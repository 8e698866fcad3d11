package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
)

const (
	defaultWorkerCount  = 4
	defaultUnitTimeout  = 30 * time.Second
	defaultPerUserEvery = 250 * time.Millisecond
	defaultPerUserBurst = 2
)

// recurringService runs the recurring-transaction tick: find due schedules,
// fan them out with bounded concurrency, and materialize each in its own
// atomic unit. Idempotency lives in the store transaction (first writer wins);
// this layer only classifies outcomes and keeps units independent.
type recurringService struct {
	txnRepo portsrepo.TransactionRepositoryFacade

	workerCount  int
	unitTimeout  time.Duration
	perUserEvery time.Duration
	perUserBurst int

	mu           sync.Mutex
	userLimiters map[string]*rate.Limiter
}

// RecurringServiceOption configures a recurringService.
type RecurringServiceOption func(*recurringService)

// WithWorkerCount bounds how many materializations run concurrently. The
// bound caps simultaneous store transactions; it is not needed for
// correctness.
func WithWorkerCount(n int) RecurringServiceOption {
	return func(s *recurringService) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithUnitTimeout bounds the execution time of one materialization. A timed
// out unit rolls back and is retried at the next tick.
func WithUnitTimeout(d time.Duration) RecurringServiceOption {
	return func(s *recurringService) {
		if d > 0 {
			s.unitTimeout = d
		}
	}
}

// WithPerUserThrottle caps materialization throughput per user, so one user
// with many recurring items cannot monopolize the worker pool or the store.
func WithPerUserThrottle(every time.Duration, burst int) RecurringServiceOption {
	return func(s *recurringService) {
		if every > 0 {
			s.perUserEvery = every
		}
		if burst > 0 {
			s.perUserBurst = burst
		}
	}
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(txnRepo portsrepo.TransactionRepositoryFacade, opts ...RecurringServiceOption) portssvc.RecurringSvcFacade {
	s := &recurringService{
		txnRepo:      txnRepo,
		workerCount:  defaultWorkerCount,
		unitTimeout:  defaultUnitTimeout,
		perUserEvery: defaultPerUserEvery,
		perUserBurst: defaultPerUserBurst,
		userLimiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) RunRecurringTick(ctx context.Context, now time.Time) (domain.TickSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := domain.TickSummary{RunAt: now}

	due, err := s.txnRepo.FindDueSchedules(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("failed to load due schedules: %w", err)
	}
	if len(due) == 0 {
		logger.Info("No schedules due", slog.Time("now", now))
		return summary, nil
	}

	logger.Info("Processing due schedules", slog.Int("count", len(due)), slog.Time("now", now))

	jobs := make(chan domain.Transaction)
	outcomes := make(chan domain.UnitOutcome)

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for schedule := range jobs {
				outcomes <- s.materializeOne(ctx, schedule, now)
			}
		}()
	}

	go func() {
		for _, schedule := range due {
			jobs <- schedule
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		summary.Record(outcome)
		if outcome.Err != nil {
			logger.Warn("Schedule unit did not complete",
				slog.String("schedule_id", outcome.ItemID),
				slog.String("status", string(outcome.Status)),
				slog.String("error", outcome.Err.Error()),
			)
		}
	}

	logger.Info("Recurring tick finished",
		slog.Int("total", summary.Total),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// materializeOne processes a single due schedule as an independent unit of
// work. Any error is confined to this unit's outcome.
func (s *recurringService) materializeOne(ctx context.Context, schedule domain.Transaction, now time.Time) domain.UnitOutcome {
	unitCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	if err := s.limiterFor(schedule.UserID).Wait(unitCtx); err != nil {
		// Throttle wait ran out of unit budget; the schedule is still due and
		// retries next tick.
		return domain.UnitOutcome{ItemID: schedule.TransactionID, Status: domain.UnitFailed, Err: err}
	}

	_, err := s.txnRepo.MaterializeSchedule(unitCtx, schedule.TransactionID, uuid.NewString(), now)
	switch {
	case err == nil:
		return domain.UnitOutcome{ItemID: schedule.TransactionID, Status: domain.UnitProcessed}
	case errors.Is(err, apperrors.ErrAlreadyProcessed):
		// Another run won the race for this occurrence.
		return domain.UnitOutcome{ItemID: schedule.TransactionID, Status: domain.UnitSkipped}
	case apperrors.IsFatalForItem(err):
		// Mark the schedule FAILED so it stops retrying silently. Use the tick
		// context: the unit context may already be spent.
		if markErr := s.txnRepo.UpdateScheduleStatus(ctx, schedule.TransactionID, domain.RecurringFailed, now); markErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to mark schedule FAILED: %w", markErr))
		}
		return domain.UnitOutcome{ItemID: schedule.TransactionID, Status: domain.UnitFailed, Err: err}
	default:
		// Transient: the atomic unit rolled back, the schedule stays due.
		return domain.UnitOutcome{ItemID: schedule.TransactionID, Status: domain.UnitFailed, Err: err}
	}
}

func (s *recurringService) limiterFor(userID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.userLimiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(s.perUserEvery), s.perUserBurst)
		s.userLimiters[userID] = limiter
	}
	return limiter
}
