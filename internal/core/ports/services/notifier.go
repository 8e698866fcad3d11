package services

import (
	"context"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetAlert carries everything the notifier needs to render and deliver a
// budget threshold email.
type BudgetAlert struct {
	RecipientEmail string
	RecipientName  string
	AccountName    string
	BudgetAmount   decimal.Decimal
	TotalExpense   decimal.Decimal
	PercentUsed    decimal.Decimal
}

// MonthlyReport carries a user's month-end summary for delivery.
type MonthlyReport struct {
	RecipientEmail string
	RecipientName  string
	AccountName    string
	PeriodLabel    string // e.g. "June 2025"
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	ByCategory     []domain.CategorySummary
}

// AlertNotifier is the outbound notification port. Delivery mechanics live in
// the adapter; callers only act on success or failure. A nil error means the
// message was accepted for delivery.
type AlertNotifier interface {
	SendBudgetAlert(ctx context.Context, alert BudgetAlert) error
	SendMonthlyReport(ctx context.Context, report MonthlyReport) error
}
