package repositories

import (
	"context"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a page of transactions for an
	// account, newest first, using an opaque cursor token.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumExpensesInWindow returns the total EXPENSE amount for an account
	// within [from, to], as a positive decimal.
	SumExpensesInWindow(ctx context.Context, userID string, accountID string, from time.Time, to time.Time) (decimal.Decimal, error)

	// SummarizeByCategory aggregates an account's transactions per category and
	// type within [from, to]. Used by monthly reporting.
	SummarizeByCategory(ctx context.Context, userID string, accountID string, from time.Time, to time.Time) ([]domain.CategorySummary, error)
}

// ScheduleReader defines read operations for recurring schedules
type ScheduleReader interface {
	// FindDueSchedules returns ACTIVE recurring transactions that require
	// materialization at now: never processed, or next occurrence has arrived.
	// Read-only; may return the same schedule across consecutive ticks until it
	// is processed (idempotency is enforced inside MaterializeSchedule).
	FindDueSchedules(ctx context.Context, now time.Time) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and applies its signed amount
	// to the owning account's balance in one atomic unit.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// ScheduleWriter defines write operations for recurring schedules
type ScheduleWriter interface {
	// MaterializeSchedule executes the materialization atomic unit for one due
	// schedule: re-read the schedule with a row lock, re-check dueness, insert
	// the materialized transaction under newTransactionID, apply the signed
	// balance delta, and advance the schedule pointer. All steps commit or roll
	// back together.
	//
	// Returns apperrors.ErrAlreadyProcessed when the re-check finds the
	// schedule no longer due (another run won the race), and
	// apperrors.ErrInvalidInterval when the schedule's interval unit is
	// unknown; the latter leaves the schedule untouched and due.
	MaterializeSchedule(ctx context.Context, scheduleID string, newTransactionID string, now time.Time) (*domain.Transaction, error)

	// UpdateScheduleStatus sets the lifecycle status of a recurring schedule.
	// Used to mark schedules FAILED after a fatal, non-retryable error.
	UpdateScheduleStatus(ctx context.Context, scheduleID string, status domain.RecurringStatus, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	ScheduleReader
	ScheduleWriter
}
