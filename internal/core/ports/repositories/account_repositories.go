package repositories

import (
	"context"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindDefaultAccountByUserID retrieves the user's default account, or
	// apperrors.ErrNotFound when the user has none.
	FindDefaultAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// ListAccountsByUserID retrieves all accounts owned by a user.
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. When account.IsDefault is set, any
	// previous default for the same user is cleared in the same atomic unit.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SetDefaultAccount marks the given account as the user's default and
	// clears the flag on their other accounts atomically.
	SetDefaultAccount(ctx context.Context, userID string, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
