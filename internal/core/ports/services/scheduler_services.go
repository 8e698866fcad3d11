package services

import (
	"context"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
)

// RecurringSvcFacade exposes the recurring-transaction tick. Idempotent and
// safe to invoke repeatedly or concurrently: each due schedule materializes at
// most once per occurrence regardless of how many runs observe it.
type RecurringSvcFacade interface {
	// RunRecurringTick finds schedules due at now, fans them out with bounded
	// concurrency, and materializes each in its own atomic unit. The returned
	// summary aggregates per-unit outcomes; the error is non-nil only when the
	// tick could not run at all (e.g. the due query failed).
	RunRecurringTick(ctx context.Context, now time.Time) (domain.TickSummary, error)
}

// BudgetAlertSvcFacade exposes the budget alert tick.
type BudgetAlertSvcFacade interface {
	// RunBudgetAlertTick evaluates every budget against the current calendar
	// month's spend on the owner's default account and sends threshold alerts.
	RunBudgetAlertTick(ctx context.Context, now time.Time) (domain.TickSummary, error)
}

// ReportingSvcFacade exposes the monthly reporting tick.
type ReportingSvcFacade interface {
	// RunMonthlyReportTick emails each user a summary of the previous calendar
	// month's activity on their default account.
	RunMonthlyReportTick(ctx context.Context, now time.Time) (domain.TickSummary, error)
}
