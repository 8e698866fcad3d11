package services

import (
	portsrepo "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/repositories"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.AlertNotifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.AccountRepo, repos.TransactionRepo)

	container.Recurring = NewRecurringService(
		repos.TransactionRepo,
		WithWorkerCount(cfg.TickWorkerCount),
		WithUnitTimeout(cfg.TickUnitTimeout),
		WithPerUserThrottle(cfg.PerUserThrottleEvery, cfg.PerUserThrottleBurst),
	)
	container.BudgetAlert = NewBudgetAlertService(
		repos.BudgetRepo,
		repos.TransactionRepo,
		notifier,
		WithAlertWorkerCount(cfg.TickWorkerCount),
		WithAlertUnitTimeout(cfg.TickUnitTimeout),
	)
	container.Reporting = NewReportingService(repos.UserRepo, repos.AccountRepo, repos.TransactionRepo, notifier)

	return container
}
