package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/recurrence"
)

// budgetService provides budget operations for the interactive API.
// The alert tick lives in budgetAlertService; this only serves CRUD reads
// and the single-budget upsert.
type budgetService struct {
	budgetRepo  portsrepo.BudgetRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:  budgetRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) GetCurrentBudget(ctx context.Context, userID string, now time.Time) (*domain.Budget, *dto.BudgetUsage, error) {
	budget, err := s.budgetRepo.FindBudgetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	account, err := s.accountRepo.FindDefaultAccountByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Budget exists but there is no default account to measure spend
			// against; return the budget without usage.
			return budget, nil, nil
		}
		return nil, nil, err
	}

	from, to := recurrence.MonthWindow(now)
	spend, err := s.txnRepo.SumExpensesInWindow(ctx, userID, account.AccountID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sum current month expenses: %w", err)
	}

	usage := &dto.BudgetUsage{
		TotalExpense: spend,
		PercentUsed:  percentOfBudget(spend, budget.Amount),
	}
	return budget, usage, nil
}

func (s *budgetService) UpsertBudget(ctx context.Context, userID string, req dto.UpsertBudgetRequest) (*domain.Budget, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: budget amount cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID: uuid.NewString(),
		UserID:   userID,
		Amount:   req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.budgetRepo.UpsertBudget(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return saved, nil
}

// percentOfBudget computes spend/limit*100. A zero limit with any spend is
// reported as fully used rather than dividing by zero.
func percentOfBudget(spend, limit decimal.Decimal) decimal.Decimal {
	if limit.IsZero() {
		if spend.IsPositive() {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	return spend.Div(limit).Mul(decimal.NewFromInt(100))
}
