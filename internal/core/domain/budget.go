package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-user monthly spending limit. Each user has at most one.
// LastAlertSentAt, once set, only ever moves forward; it is written by the
// budget evaluator after a confirmed alert delivery, never before.
type Budget struct {
	BudgetID        string          `json:"budgetID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`   // FK -> users.user_id (UNIQUE)
	Amount          decimal.Decimal `json:"amount"`   // Monthly limit
	LastAlertSentAt *time.Time      `json:"lastAlertSentAt,omitempty"`
	AuditFields
}

// BudgetEvaluationCandidate is a budget joined with the owner and their
// default account, as loaded for one alert tick. DefaultAccount is nil when
// the owner has no default account; such budgets are skipped.
type BudgetEvaluationCandidate struct {
	Budget         Budget
	Owner          User
	DefaultAccount *Account
}
