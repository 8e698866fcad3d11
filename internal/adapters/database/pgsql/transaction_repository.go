package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	"github.com/faizantanveeer/richloom-finance-app/internal/models"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/mapping"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/pagination"
	"github.com/faizantanveeer/richloom-finance-app/internal/utils/recurrence"
)

type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewPgxTransactionRepository creates a new repository for transaction and
// recurring schedule data.
func NewPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{pool: pool}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, account_id, type, amount, category, description, occurred_at,
		is_recurring, recurring_interval, next_occurrence_at, last_processed_at, status, source_transaction_id,
		created_at, last_updated_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.AccountID,
		&m.Type,
		&m.Amount,
		&m.Category,
		&m.Description,
		&m.OccurredAt,
		&m.IsRecurring,
		&m.RecurringInterval,
		&m.NextOccurrenceAt,
		&m.LastProcessedAt,
		&m.Status,
		&m.SourceTransactionID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, user_id, account_id, type, amount, category, description, occurred_at,
		is_recurring, recurring_interval, next_occurrence_at, last_processed_at, status, source_transaction_id,
		created_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`

func insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	_, err := tx.Exec(ctx, insertTransactionQuery,
		m.TransactionID,
		m.UserID,
		m.AccountID,
		m.Type,
		m.Amount,
		m.Category,
		m.Description,
		m.OccurredAt,
		m.IsRecurring,
		m.RecurringInterval,
		m.NextOccurrenceAt,
		m.LastProcessedAt,
		m.Status,
		m.SourceTransactionID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return err
}

// applyBalanceDeltaTx adjusts an account balance inside an open transaction.
func applyBalanceDeltaTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET balance = balance + $2, last_updated_at = $3 WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, delta, now)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

// SaveTransaction inserts a transaction and applies its balance effect to the
// owning account within one DB transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	if err := insertTransactionTx(ctx, tx, m); err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	if err := applyBalanceDeltaTx(ctx, tx, m.AccountID, txn.SignedAmount(), txn.LastUpdatedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactionsByAccountID returns a page of an account's transactions,
// newest first, keyed by (occurred_at, transaction_id) for a stable cursor.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []interface{}{accountID, limit + 1}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`

	if nextToken != nil && *nextToken != "" {
		occurredAt, transactionID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (occurred_at, transaction_id) < ($3, $4)`
		args = append(args, occurredAt, transactionID)
	}
	query += ` ORDER BY occurred_at DESC, transaction_id DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row for account %s: %w", accountID, err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows for account %s: %w", accountID, err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		token := pagination.EncodeToken(last.OccurredAt, last.TransactionID)
		newNextToken = &token
	}

	return mapping.ToDomainTransactionSlice(transactions), newNextToken, nil
}

// SumExpensesInWindow returns the total EXPENSE amount as a positive decimal.
func (r *PgxTransactionRepository) SumExpensesInWindow(ctx context.Context, userID string, accountID string, from time.Time, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND account_id = $2 AND type = 'EXPENSE'
		  AND occurred_at >= $3 AND occurred_at <= $4;
	`
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, query, userID, accountID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses for account %s: %w", accountID, err)
	}
	return total, nil
}

func (r *PgxTransactionRepository) SummarizeByCategory(ctx context.Context, userID string, accountID string, from time.Time, to time.Time) ([]domain.CategorySummary, error) {
	query := `
		SELECT category, type, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND account_id = $2
		  AND occurred_at >= $3 AND occurred_at <= $4
		GROUP BY category, type
		ORDER BY category, type;
	`
	rows, err := r.pool.Query(ctx, query, userID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	summaries := []domain.CategorySummary{}
	for rows.Next() {
		var s domain.CategorySummary
		if err := rows.Scan(&s.Category, &s.Type, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category summary rows: %w", err)
	}

	return summaries, nil
}

// FindDueSchedules selects ACTIVE recurring transactions that require
// materialization at now. Read-only; the dueness re-check and advance happen
// inside MaterializeSchedule.
func (r *PgxTransactionRepository) FindDueSchedules(ctx context.Context, now time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_recurring AND status = 'ACTIVE'
		  AND (last_processed_at IS NULL OR next_occurrence_at <= $1)
		ORDER BY next_occurrence_at NULLS FIRST;
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due schedule row: %w", err)
		}
		schedules = append(schedules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due schedule rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(schedules), nil
}

// MaterializeSchedule executes the materialization atomic unit for one due
// schedule. All four steps (re-check, insert, balance delta, pointer advance)
// commit or roll back together; a failure at any step leaves the schedule
// still due and safely retryable at the next tick.
func (r *PgxTransactionRepository) MaterializeSchedule(ctx context.Context, scheduleID string, newTransactionID string, now time.Time) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	// 1. Re-read the schedule by identity with a row lock. This closes the
	// race between the due-item query and execution: a concurrent run blocks
	// here, and after the winner commits, the re-check below sees the
	// advanced pointer and exits via ErrAlreadyProcessed.
	lockQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND is_recurring FOR UPDATE;`
	m, err := scanTransaction(tx.QueryRow(ctx, lockQuery, scheduleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to re-read schedule %s: %w", scheduleID, err)
	}
	schedule := mapping.ToDomainTransaction(m)

	if !schedule.IsDue(now) {
		return nil, apperrors.ErrAlreadyProcessed
	}
	if schedule.RecurringInterval == nil {
		return nil, fmt.Errorf("schedule %s has no interval: %w", scheduleID, apperrors.ErrInvalidInterval)
	}
	next, err := recurrence.NextOccurrence(now, *schedule.RecurringInterval)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, err)
	}

	// 2. Create the materialized transaction from the schedule's template
	// fields, timestamped now, flagged non-recurring, linked to the schedule.
	materialized := domain.Transaction{
		TransactionID:       newTransactionID,
		UserID:              schedule.UserID,
		AccountID:           schedule.AccountID,
		Type:                schedule.Type,
		Amount:              schedule.Amount,
		Category:            schedule.Category,
		Description:         schedule.Description,
		OccurredAt:          now,
		IsRecurring:         false,
		SourceTransactionID: &schedule.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(materialized)); err != nil {
		return nil, fmt.Errorf("failed to insert materialized transaction for schedule %s: %w", scheduleID, err)
	}

	// 3. Apply the signed balance delta to the owning account.
	if err := applyBalanceDeltaTx(ctx, tx, schedule.AccountID, materialized.SignedAmount(), now); err != nil {
		return nil, err
	}

	// 4. Advance the schedule pointer.
	advanceQuery := `
		UPDATE transactions
		SET last_processed_at = $2, next_occurrence_at = $3, last_updated_at = $2
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, advanceQuery, scheduleID, now, next); err != nil {
		return nil, fmt.Errorf("failed to advance schedule %s: %w", scheduleID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit materialization of schedule %s: %w", scheduleID, err)
	}
	return &materialized, nil
}

func (r *PgxTransactionRepository) UpdateScheduleStatus(ctx context.Context, scheduleID string, status domain.RecurringStatus, now time.Time) error {
	query := `UPDATE transactions SET status = $2, last_updated_at = $3 WHERE transaction_id = $1 AND is_recurring;`
	tag, err := r.pool.Exec(ctx, query, scheduleID, string(status), now)
	if err != nil {
		return fmt.Errorf("failed to update status of schedule %s: %w", scheduleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
