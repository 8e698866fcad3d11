package services

import (
	"context"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
)

// BudgetSvcFacade defines operations on a user's budget.
type BudgetSvcFacade interface {
	// GetCurrentBudget returns the user's budget together with the current
	// calendar month's spend on their default account. The budget pointer is
	// nil when the user has not set one.
	GetCurrentBudget(ctx context.Context, userID string, now time.Time) (*domain.Budget, *dto.BudgetUsage, error)

	// UpsertBudget creates or updates the user's single budget.
	UpsertBudget(ctx context.Context, userID string, req dto.UpsertBudgetRequest) (*domain.Budget, error)
}
