package dto

import (
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// A recurring transaction is created by setting IsRecurring and an interval;
// it becomes an ACTIVE schedule whose first materialization the scheduler
// picks up on the next tick.
type CreateTransactionRequest struct {
	AccountID         string          `json:"accountID" binding:"required,uuid"`
	Type              string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount            decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category          string          `json:"category" binding:"required"`
	Description       string          `json:"description"`
	OccurredAt        time.Time       `json:"occurredAt" binding:"required"`
	IsRecurring       bool            `json:"isRecurring"`
	RecurringInterval *string         `json:"recurringInterval" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID       string                  `json:"transactionID"`
	AccountID           string                  `json:"accountID"`
	Type                domain.TransactionType  `json:"type"`
	Amount              decimal.Decimal         `json:"amount"`
	Category            string                  `json:"category"`
	Description         string                  `json:"description,omitempty"`
	OccurredAt          time.Time               `json:"occurredAt"`
	IsRecurring         bool                    `json:"isRecurring"`
	RecurringInterval   *domain.IntervalUnit    `json:"recurringInterval,omitempty"`
	NextOccurrenceAt    *time.Time              `json:"nextOccurrenceAt,omitempty"`
	LastProcessedAt     *time.Time              `json:"lastProcessedAt,omitempty"`
	Status              *domain.RecurringStatus `json:"status,omitempty"`
	SourceTransactionID *string                 `json:"sourceTransactionID,omitempty"`
	CreatedAt           time.Time               `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		AccountID:           txn.AccountID,
		Type:                txn.Type,
		Amount:              txn.Amount,
		Category:            txn.Category,
		Description:         txn.Description,
		OccurredAt:          txn.OccurredAt,
		IsRecurring:         txn.IsRecurring,
		RecurringInterval:   txn.RecurringInterval,
		NextOccurrenceAt:    txn.NextOccurrenceAt,
		LastProcessedAt:     txn.LastProcessedAt,
		Status:              txn.Status,
		SourceTransactionID: txn.SourceTransactionID,
		CreatedAt:           txn.CreatedAt,
	}
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions with the next cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToListTransactionsResponse builds the paged response DTO.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i, txn := range txns {
		res.Transactions[i] = ToTransactionResponse(&txn)
	}
	return res
}
