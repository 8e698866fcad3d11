package domain_test

import (
	"testing"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("50.00")

	expense := domain.Transaction{Type: domain.Expense, Amount: amount}
	assert.True(t, expense.SignedAmount().Equal(decimal.RequireFromString("-50.00")))

	income := domain.Transaction{Type: domain.Income, Amount: amount}
	assert.True(t, income.SignedAmount().Equal(amount))
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	active := domain.RecurringActive
	failed := domain.RecurringFailed
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		txn  domain.Transaction
		want bool
	}{
		{
			name: "never processed is due immediately",
			txn:  domain.Transaction{IsRecurring: true, Status: &active},
			want: true,
		},
		{
			name: "next occurrence in the past is due",
			txn:  domain.Transaction{IsRecurring: true, Status: &active, LastProcessedAt: &past, NextOccurrenceAt: &past},
			want: true,
		},
		{
			name: "next occurrence exactly now is due",
			txn:  domain.Transaction{IsRecurring: true, Status: &active, LastProcessedAt: &past, NextOccurrenceAt: &now},
			want: true,
		},
		{
			name: "next occurrence in the future is not due",
			txn:  domain.Transaction{IsRecurring: true, Status: &active, LastProcessedAt: &past, NextOccurrenceAt: &future},
			want: false,
		},
		{
			name: "failed schedule is never due",
			txn:  domain.Transaction{IsRecurring: true, Status: &failed},
			want: false,
		},
		{
			name: "one-off transaction is never due",
			txn:  domain.Transaction{IsRecurring: false},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.IsDue(now))
		})
	}
}
