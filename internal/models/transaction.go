package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors domain.TransactionType at the persistence layer.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction represents a row of the transactions table. Recurring columns
// are nullable and use pointers so NULL round-trips without sentinel values.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	AccountID     string          `db:"account_id"`
	Type          TransactionType `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	OccurredAt    time.Time       `db:"occurred_at"`

	IsRecurring         bool       `db:"is_recurring"`
	RecurringInterval   *string    `db:"recurring_interval"`
	NextOccurrenceAt    *time.Time `db:"next_occurrence_at"`
	LastProcessedAt     *time.Time `db:"last_processed_at"`
	Status              *string    `db:"status"`
	SourceTransactionID *string    `db:"source_transaction_id"`

	AuditFields
}
