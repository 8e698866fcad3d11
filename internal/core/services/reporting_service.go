package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/recurrence"
)

// reportingService runs the monthly report tick: each user with a default
// account and activity in the previous calendar month gets a per-category
// summary email.
type reportingService struct {
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	notifier    portssvc.AlertNotifier

	workerCount int
	unitTimeout time.Duration
}

// NewReportingService creates a new ReportingService.
func NewReportingService(userRepo portsrepo.UserRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, notifier portssvc.AlertNotifier) portssvc.ReportingSvcFacade {
	return &reportingService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		notifier:    notifier,
		workerCount: defaultWorkerCount,
		unitTimeout: defaultUnitTimeout,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) RunMonthlyReportTick(ctx context.Context, now time.Time) (domain.TickSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	summary := domain.TickSummary{RunAt: now}

	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list users for reporting: %w", err)
	}
	if len(users) == 0 {
		return summary, nil
	}

	jobs := make(chan domain.User)
	outcomes := make(chan domain.UnitOutcome)

	var wg sync.WaitGroup
	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for user := range jobs {
				outcomes <- s.reportOne(ctx, user, now)
			}
		}()
	}

	go func() {
		for _, user := range users {
			jobs <- user
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		summary.Record(outcome)
		if outcome.Err != nil {
			logger.Warn("Report unit did not complete",
				slog.String("user_id", outcome.ItemID),
				slog.String("error", outcome.Err.Error()),
			)
		}
	}

	logger.Info("Monthly report tick finished",
		slog.Int("total", summary.Total),
		slog.Int("processed", summary.Processed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (s *reportingService) reportOne(ctx context.Context, user domain.User, now time.Time) domain.UnitOutcome {
	unitCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	account, err := s.accountRepo.FindDefaultAccountByUserID(unitCtx, user.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitSkipped}
		}
		return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitFailed, Err: err}
	}

	from, to := recurrence.PreviousMonthWindow(now)
	byCategory, err := s.txnRepo.SummarizeByCategory(unitCtx, user.UserID, account.AccountID, from, to)
	if err != nil {
		return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitFailed, Err: fmt.Errorf("failed to summarize transactions: %w", err)}
	}
	if len(byCategory) == 0 {
		// Nothing happened last month; no email.
		return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitSkipped}
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, line := range byCategory {
		switch line.Type {
		case domain.Income:
			totalIncome = totalIncome.Add(line.Total)
		case domain.Expense:
			totalExpense = totalExpense.Add(line.Total)
		}
	}

	report := portssvc.MonthlyReport{
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		AccountName:    account.Name,
		PeriodLabel:    from.Format("January 2006"),
		TotalIncome:    totalIncome,
		TotalExpense:   totalExpense,
		ByCategory:     byCategory,
	}
	if err := s.notifier.SendMonthlyReport(unitCtx, report); err != nil {
		return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitFailed, Err: fmt.Errorf("failed to send monthly report: %w", err)}
	}

	return domain.UnitOutcome{ItemID: user.UserID, Status: domain.UnitProcessed}
}
