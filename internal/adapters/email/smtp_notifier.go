package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
	"github.com/faizantanveeer/richloom-finance-app/internal/platform/config"
)

// SMTPNotifier delivers budget alerts and monthly reports over SMTP.
type SMTPNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier creates a notifier from the SMTP section of the config.
func NewSMTPNotifier(cfg *config.Config) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPNotifier{client: client, from: cfg.SMTPFrom}, nil
}

var _ portssvc.AlertNotifier = (*SMTPNotifier)(nil)

func (n *SMTPNotifier) SendBudgetAlert(ctx context.Context, alert portssvc.BudgetAlert) error {
	subject := fmt.Sprintf("Budget alert: %s%% of your monthly budget used", alert.PercentUsed.Round(1))

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", alert.RecipientName)
	fmt.Fprintf(&body, "You have used %s%% of your monthly budget on account %q.\n\n",
		alert.PercentUsed.Round(1), alert.AccountName)
	fmt.Fprintf(&body, "Budget:    %s\n", alert.BudgetAmount.StringFixed(2))
	fmt.Fprintf(&body, "Spent:     %s\n", alert.TotalExpense.StringFixed(2))
	fmt.Fprintf(&body, "Remaining: %s\n", alert.BudgetAmount.Sub(alert.TotalExpense).StringFixed(2))

	return n.send(ctx, alert.RecipientEmail, subject, body.String())
}

func (n *SMTPNotifier) SendMonthlyReport(ctx context.Context, report portssvc.MonthlyReport) error {
	subject := fmt.Sprintf("Your %s financial report", report.PeriodLabel)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", report.RecipientName)
	fmt.Fprintf(&body, "Here is your %s summary for account %q.\n\n", report.PeriodLabel, report.AccountName)
	fmt.Fprintf(&body, "Total income:  %s\n", report.TotalIncome.StringFixed(2))
	fmt.Fprintf(&body, "Total expense: %s\n", report.TotalExpense.StringFixed(2))
	fmt.Fprintf(&body, "Net:           %s\n\n", report.TotalIncome.Sub(report.TotalExpense).StringFixed(2))
	if len(report.ByCategory) > 0 {
		body.WriteString("By category:\n")
		for _, c := range report.ByCategory {
			fmt.Fprintf(&body, "  %-20s %-8s %s\n", c.Category, c.Type, c.Total.StringFixed(2))
		}
	}

	return n.send(ctx, report.RecipientEmail, subject, body.String())
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", n.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logger.Info("Email delivered", slog.String("to", to), slog.String("subject", subject))
	return nil
}
