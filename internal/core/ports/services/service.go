package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers and
// the cron wiring.
type ServiceContainer struct {
	User        UserSvcFacade
	Account     AccountSvcFacade
	Transaction TransactionSvcFacade
	Budget      BudgetSvcFacade
	Recurring   RecurringSvcFacade
	BudgetAlert BudgetAlertSvcFacade
	Reporting   ReportingSvcFacade
}
