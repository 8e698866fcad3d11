package repositories

import (
	"context"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByUserID retrieves the single budget owned by a user.
	FindBudgetByUserID(ctx context.Context, userID string) (*domain.Budget, error)

	// FindBudgetsForEvaluation loads all budgets joined with their owner and
	// the owner's default account. Candidates whose owner has no default
	// account are returned with DefaultAccount == nil.
	FindBudgetsForEvaluation(ctx context.Context) ([]domain.BudgetEvaluationCandidate, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// UpsertBudget creates or replaces the user's single budget amount.
	UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error)

	// MarkAlertSent records that a budget alert was delivered at sentAt.
	// The write is monotonic: an older timestamp never overwrites a newer one.
	MarkAlertSent(ctx context.Context, budgetID string, sentAt time.Time) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
