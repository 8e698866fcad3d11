package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a financial account within the core domain.
// Balance is exact decimal; it is mutated only inside the same atomic unit
// that records the transaction causing the change.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	UserID    string          `json:"userID"`    // FK -> users.user_id (NON-NULL)
	Name      string          `json:"name"`      // User-defined name
	IsDefault bool            `json:"isDefault"` // The user's primary account; budgets evaluate against it
	Balance   decimal.Decimal `json:"balance"`   // Persisted running balance
	AuditFields
}
