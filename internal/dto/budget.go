package dto

import (
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertBudgetRequest defines the data needed to set the user's budget.
type UpsertBudgetRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gte=0"`
}

// BudgetUsage describes spend against the budget for the current month.
type BudgetUsage struct {
	TotalExpense decimal.Decimal `json:"totalExpense"`
	PercentUsed  decimal.Decimal `json:"percentUsed"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID        string          `json:"budgetID"`
	Amount          decimal.Decimal `json:"amount"`
	LastAlertSentAt *time.Time      `json:"lastAlertSentAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// CurrentBudgetResponse pairs the budget with its current-month usage.
// Budget is null when the user has not set one.
type CurrentBudgetResponse struct {
	Budget *BudgetResponse `json:"budget"`
	Usage  *BudgetUsage    `json:"usage,omitempty"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) *BudgetResponse {
	if b == nil {
		return nil
	}
	return &BudgetResponse{
		BudgetID:        b.BudgetID,
		Amount:          b.Amount,
		LastAlertSentAt: b.LastAlertSentAt,
		CreatedAt:       b.CreatedAt,
		LastUpdatedAt:   b.LastUpdatedAt,
	}
}
