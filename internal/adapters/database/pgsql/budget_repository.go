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
)

type PgxBudgetRepository struct {
	pool *pgxpool.Pool
}

// NewPgxBudgetRepository creates a new repository for budget data.
func NewPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{pool: pool}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, user_id, amount, last_alert_sent_at, created_at, last_updated_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.UserID,
		&m.Amount,
		&m.LastAlertSentAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxBudgetRepository) FindBudgetByUserID(ctx context.Context, userID string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1;`
	m, err := scanBudget(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget for user %s: %w", userID, err)
	}

	budget := mapping.ToDomainBudget(m)
	return &budget, nil
}

// FindBudgetsForEvaluation loads every budget joined with its owner and the
// owner's default account in one query. The account join is LEFT so owners
// without a default account still surface, with DefaultAccount left nil.
func (r *PgxBudgetRepository) FindBudgetsForEvaluation(ctx context.Context) ([]domain.BudgetEvaluationCandidate, error) {
	query := `
		SELECT b.budget_id, b.user_id, b.amount, b.last_alert_sent_at, b.created_at, b.last_updated_at,
		       u.email, u.name,
		       a.account_id, a.name, a.balance
		FROM budgets b
		JOIN users u ON u.user_id = b.user_id
		LEFT JOIN accounts a ON a.user_id = b.user_id AND a.is_default
		ORDER BY b.budget_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets for evaluation: %w", err)
	}
	defer rows.Close()

	candidates := []domain.BudgetEvaluationCandidate{}
	for rows.Next() {
		var (
			b models.Budget
			u models.User
			a models.Account

			accountID      *string
			accountName    *string
			accountBalance *decimal.Decimal
		)
		err := rows.Scan(
			&b.BudgetID,
			&b.UserID,
			&b.Amount,
			&b.LastAlertSentAt,
			&b.CreatedAt,
			&b.LastUpdatedAt,
			&u.Email,
			&u.Name,
			&accountID,
			&accountName,
			&accountBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget evaluation row: %w", err)
		}
		u.UserID = b.UserID

		candidate := domain.BudgetEvaluationCandidate{
			Budget: mapping.ToDomainBudget(b),
			Owner:  mapping.ToDomainUser(u),
		}
		if accountID != nil {
			a.AccountID = *accountID
			a.UserID = b.UserID
			a.Name = *accountName
			a.IsDefault = true
			a.Balance = *accountBalance
			account := mapping.ToDomainAccount(a)
			candidate.DefaultAccount = &account
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget evaluation rows: %w", err)
	}

	return candidates, nil
}

// UpsertBudget creates the user's budget or replaces its amount. The alert
// marker survives an amount change.
func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error) {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (budget_id, user_id, amount, last_alert_sent_at, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET amount = EXCLUDED.amount, last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + budgetColumns + `;
	`
	saved, err := scanBudget(r.pool.QueryRow(ctx, query,
		m.BudgetID, m.UserID, m.Amount, m.LastAlertSentAt, m.CreatedAt, m.LastUpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget for user %s: %w", m.UserID, err)
	}

	result := mapping.ToDomainBudget(saved)
	return &result, nil
}

// MarkAlertSent advances the alert marker to sentAt. The WHERE clause keeps
// the write monotonic: a stale sentAt from a delayed worker never rewinds a
// newer marker, it just affects zero rows.
func (r *PgxBudgetRepository) MarkAlertSent(ctx context.Context, budgetID string, sentAt time.Time) error {
	query := `
		UPDATE budgets
		SET last_alert_sent_at = $2, last_updated_at = $2
		WHERE budget_id = $1 AND (last_alert_sent_at IS NULL OR last_alert_sent_at < $2);
	`
	if _, err := r.pool.Exec(ctx, query, budgetID, sentAt); err != nil {
		return fmt.Errorf("failed to mark alert sent for budget %s: %w", budgetID, err)
	}
	return nil
}
