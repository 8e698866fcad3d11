package services

import (
	"context"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction owned by the user.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of an account's transactions, newest
	// first, with an opaque cursor for the next page.
	ListTransactions(ctx context.Context, userID string, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateTransaction records a new transaction, applying its balance effect.
	// Recurring transactions are created as ACTIVE schedules with their first
	// occurrence computed from the transaction date.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
