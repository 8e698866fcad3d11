package mapping

import (
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:       d.TransactionID,
		UserID:              d.UserID,
		AccountID:           d.AccountID,
		Type:                models.TransactionType(d.Type),
		Amount:              d.Amount,
		Category:            d.Category,
		Description:         d.Description,
		OccurredAt:          d.OccurredAt,
		IsRecurring:         d.IsRecurring,
		NextOccurrenceAt:    d.NextOccurrenceAt,
		LastProcessedAt:     d.LastProcessedAt,
		SourceTransactionID: d.SourceTransactionID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	if d.RecurringInterval != nil {
		interval := string(*d.RecurringInterval)
		m.RecurringInterval = &interval
	}
	if d.Status != nil {
		status := string(*d.Status)
		m.Status = &status
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:       m.TransactionID,
		UserID:              m.UserID,
		AccountID:           m.AccountID,
		Type:                domain.TransactionType(m.Type),
		Amount:              m.Amount,
		Category:            m.Category,
		Description:         m.Description,
		OccurredAt:          m.OccurredAt,
		IsRecurring:         m.IsRecurring,
		NextOccurrenceAt:    m.NextOccurrenceAt,
		LastProcessedAt:     m.LastProcessedAt,
		SourceTransactionID: m.SourceTransactionID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	if m.RecurringInterval != nil {
		interval := domain.IntervalUnit(*m.RecurringInterval)
		d.RecurringInterval = &interval
	}
	if m.Status != nil {
		status := domain.RecurringStatus(*m.Status)
		d.Status = &status
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
