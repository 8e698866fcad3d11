package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a money movement.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// IntervalUnit defines how often a recurring transaction repeats.
type IntervalUnit string

const (
	Daily   IntervalUnit = "DAILY"
	Weekly  IntervalUnit = "WEEKLY"
	Monthly IntervalUnit = "MONTHLY"
	Yearly  IntervalUnit = "YEARLY"
)

// RecurringStatus is the lifecycle state of a recurring schedule.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "ACTIVE"
	RecurringCompleted RecurringStatus = "COMPLETED"
	// RecurringFailed marks a schedule whose materialization hit a fatal,
	// non-retryable error (e.g. an invalid interval). It stays visible to the
	// user but the scheduler no longer picks it up.
	RecurringFailed RecurringStatus = "FAILED"
)

// Transaction represents a single money movement against an account.
// A recurring transaction row doubles as the schedule that drives future
// materializations: the recurring fields below form its template and pointer.
// Materialized rows are non-recurring, link back to their schedule through
// SourceTransactionID, and are immutable to the scheduler once written.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	UserID        string          `json:"userID"`        // FK -> users.user_id
	AccountID     string          `json:"accountID"`     // FK -> accounts.account_id
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; Type carries the sign
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurredAt"`

	// Recurring schedule fields; nil/zero for one-off transactions.
	IsRecurring       bool             `json:"isRecurring"`
	RecurringInterval *IntervalUnit    `json:"recurringInterval,omitempty"`
	NextOccurrenceAt  *time.Time       `json:"nextOccurrenceAt,omitempty"`
	LastProcessedAt   *time.Time       `json:"lastProcessedAt,omitempty"`
	Status            *RecurringStatus `json:"status,omitempty"`

	// SourceTransactionID links a materialized transaction back to the
	// recurring schedule that produced it.
	SourceTransactionID *string `json:"sourceTransactionID,omitempty"`

	AuditFields
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: income adds to a balance, expense subtracts from it.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsDue reports whether a recurring schedule requires materialization at now.
// A schedule that has never been processed is due immediately; otherwise it is
// due once its next occurrence time has arrived.
func (t Transaction) IsDue(now time.Time) bool {
	if !t.IsRecurring || t.Status == nil || *t.Status != RecurringActive {
		return false
	}
	if t.LastProcessedAt == nil {
		return true
	}
	return t.NextOccurrenceAt != nil && !t.NextOccurrenceAt.After(now)
}
