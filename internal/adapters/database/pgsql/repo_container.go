package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs every pgsql repository over the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:        NewPgxUserRepository(dbPool),
		AccountRepo:     NewPgxAccountRepository(dbPool),
		TransactionRepo: NewPgxTransactionRepository(dbPool),
		BudgetRepo:      NewPgxBudgetRepository(dbPool),
	}
}
