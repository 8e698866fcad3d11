package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a row of the accounts table.
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Name      string          `db:"name"`
	IsDefault bool            `db:"is_default"`
	Balance   decimal.Decimal `db:"balance"` // NUMERIC; scanned as decimal.Decimal
	AuditFields
}
