package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/recurrence"
)

// alertThresholdPercent is the spend level at which a first alert fires.
var alertThresholdPercent = decimal.NewFromInt(80)

// budgetAlertService runs the budget alert tick: evaluate every budget
// against the current calendar month's spend on the owner's default account
// and send threshold alerts through the notifier.
//
// The send rule is deliberate, quirks included: a first alert fires at >= 80%
// only if no alert was ever sent; after that, a new alert fires only once a
// new calendar month begins, regardless of the current percentage. A user who
// crosses 95% later in the same month gets no second alert.
type budgetAlertService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	txnRepo    portsrepo.TransactionRepositoryFacade
	notifier   portssvc.AlertNotifier

	workerCount int
	unitTimeout time.Duration
}

// BudgetAlertServiceOption configures a budgetAlertService.
type BudgetAlertServiceOption func(*budgetAlertService)

// WithAlertWorkerCount bounds how many budget evaluations run concurrently.
func WithAlertWorkerCount(n int) BudgetAlertServiceOption {
	return func(s *budgetAlertService) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithAlertUnitTimeout bounds the execution time of one evaluation.
func WithAlertUnitTimeout(d time.Duration) BudgetAlertServiceOption {
	return func(s *budgetAlertService) {
		if d > 0 {
			s.unitTimeout = d
		}
	}
}

// NewBudgetAlertService creates a new BudgetAlertService.
func NewBudgetAlertService(budgetRepo portsrepo.BudgetRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, notifier portssvc.AlertNotifier, opts ...BudgetAlertServiceOption) portssvc.BudgetAlertSvcFacade {
	s := &budgetAlertService{
		budgetRepo:  budgetRepo,
		txnRepo:     txnRepo,
		notifier:    notifier,
		workerCount: defaultWorkerCount,
		unitTimeout: defaultUnitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BudgetAlertSvcFacade = (*budgetAlertService)(nil)

func (s *budgetAlertService) RunBudgetAlertTick(ctx context.Context, now time.Time) (domain.TickSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := domain.TickSummary{RunAt: now}

	candidates, err := s.budgetRepo.FindBudgetsForEvaluation(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load budgets for evaluation: %w", err)
	}
	if len(candidates) == 0 {
		logger.Info("No budgets to evaluate", slog.Time("now", now))
		return summary, nil
	}

	jobs := make(chan domain.BudgetEvaluationCandidate)
	outcomes := make(chan domain.UnitOutcome)

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range jobs {
				outcomes <- s.evaluateOne(ctx, candidate, now)
			}
		}()
	}

	go func() {
		for _, candidate := range candidates {
			jobs <- candidate
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		summary.Record(outcome)
		if outcome.Err != nil {
			logger.Warn("Budget unit did not complete",
				slog.String("budget_id", outcome.ItemID),
				slog.String("error", outcome.Err.Error()),
			)
		}
	}
	// Every processed unit sent exactly one alert.
	summary.Alerted = summary.Processed

	logger.Info("Budget alert tick finished",
		slog.Int("total", summary.Total),
		slog.Int("alerted", summary.Alerted),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

// evaluateOne evaluates a single budget as an independent unit of work.
func (s *budgetAlertService) evaluateOne(ctx context.Context, candidate domain.BudgetEvaluationCandidate, now time.Time) domain.UnitOutcome {
	logger := middleware.GetLoggerFromCtx(ctx)
	budget := candidate.Budget

	if candidate.DefaultAccount == nil {
		// No account means no spend to evaluate against. Logged, not retried.
		logger.Info("Skipping budget without default account",
			slog.String("budget_id", budget.BudgetID),
			slog.String("user_id", budget.UserID),
		)
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitSkipped}
	}

	unitCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	from, to := recurrence.MonthWindow(now)
	spend, err := s.txnRepo.SumExpensesInWindow(unitCtx, budget.UserID, candidate.DefaultAccount.AccountID, from, to)
	if err != nil {
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitFailed, Err: fmt.Errorf("failed to sum expenses: %w", err)}
	}

	if budget.Amount.IsZero() && spend.IsZero() {
		// A zero-amount budget with no spend is not evaluated at all.
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitSkipped}
	}
	percentUsed := percentOfBudget(spend, budget.Amount)

	if !shouldSendAlert(budget.LastAlertSentAt, percentUsed, now) {
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitSkipped}
	}

	alert := portssvc.BudgetAlert{
		RecipientEmail: candidate.Owner.Email,
		RecipientName:  candidate.Owner.Name,
		AccountName:    candidate.DefaultAccount.Name,
		BudgetAmount:   budget.Amount,
		TotalExpense:   spend,
		PercentUsed:    percentUsed,
	}
	if err := s.notifier.SendBudgetAlert(unitCtx, alert); err != nil {
		// Delivery failed: leave lastAlertSentAt untouched so the next tick
		// retries the send.
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitFailed, Err: fmt.Errorf("failed to send budget alert: %w", err)}
	}

	if err := s.budgetRepo.MarkAlertSent(unitCtx, budget.BudgetID, now); err != nil {
		// The alert went out but the marker write failed; the next tick may
		// send a duplicate. Surface the failure so the unit is visible.
		return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitFailed, Err: fmt.Errorf("failed to record alert send: %w", err)}
	}

	logger.Info("Budget alert sent",
		slog.String("budget_id", budget.BudgetID),
		slog.String("user_id", budget.UserID),
		slog.String("percent_used", percentUsed.StringFixed(2)),
	)
	return domain.UnitOutcome{ItemID: budget.BudgetID, Status: domain.UnitProcessed}
}

// shouldSendAlert applies the send decision:
//   - first alert when spend reached the threshold and none was ever sent, or
//   - a new calendar month began since the last alert (re-arms the alert for
//     the new period regardless of the current percentage).
func shouldSendAlert(lastAlertSentAt *time.Time, percentUsed decimal.Decimal, now time.Time) bool {
	if lastAlertSentAt == nil {
		return percentUsed.GreaterThanOrEqual(alertThresholdPercent)
	}
	return !recurrence.SameCalendarMonth(*lastAlertSentAt, now)
}
