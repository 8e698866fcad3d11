package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a row of the budgets table. user_id is UNIQUE: one budget
// per user.
type Budget struct {
	BudgetID        string          `db:"budget_id"`
	UserID          string          `db:"user_id"`
	Amount          decimal.Decimal `db:"amount"`
	LastAlertSentAt *time.Time      `db:"last_alert_sent_at"`
	AuditFields
}
