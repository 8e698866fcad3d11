package email

import (
	"context"
	"log/slog"

	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
)

// LogNotifier writes notifications to the structured log instead of sending
// email. Used when no SMTP host is configured, typically in development.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ portssvc.AlertNotifier = (*LogNotifier)(nil)

func (n *LogNotifier) SendBudgetAlert(ctx context.Context, alert portssvc.BudgetAlert) error {
	middleware.GetLoggerFromCtx(ctx).Info("Budget alert (log only, SMTP not configured)",
		slog.String("to", alert.RecipientEmail),
		slog.String("account", alert.AccountName),
		slog.String("budget", alert.BudgetAmount.String()),
		slog.String("spent", alert.TotalExpense.String()),
		slog.String("percent_used", alert.PercentUsed.Round(1).String()),
	)
	return nil
}

func (n *LogNotifier) SendMonthlyReport(ctx context.Context, report portssvc.MonthlyReport) error {
	middleware.GetLoggerFromCtx(ctx).Info("Monthly report (log only, SMTP not configured)",
		slog.String("to", report.RecipientEmail),
		slog.String("period", report.PeriodLabel),
		slog.String("income", report.TotalIncome.String()),
		slog.String("expense", report.TotalExpense.String()),
		slog.Int("categories", len(report.ByCategory)),
	)
	return nil
}
