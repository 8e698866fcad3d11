package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/faizantanveeer/richloom-finance-app/internal/adapters/database/pgsql"
	"github.com/faizantanveeer/richloom-finance-app/internal/adapters/email"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
	"github.com/faizantanveeer/richloom-finance-app/internal/handlers"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
	"github.com/faizantanveeer/richloom-finance-app/internal/platform/config"
	"github.com/faizantanveeer/richloom-finance-app/internal/platform/scheduler"
	"github.com/faizantanveeer/richloom-finance-app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, the notifier and the service container
	repos := pgsql.NewRepositoryProvider(dbPool)
	notifier := newNotifier(logger, cfg)
	container := services.NewServiceContainer(cfg, repos, notifier)

	dto.RegisterCustomValidations()

	// Schedule the periodic ticks
	sched := scheduler.New(logger)
	ticks := []struct {
		name string
		spec string
		run  scheduler.TickFunc
	}{
		{"recurring", cfg.RecurringCron, container.Recurring.RunRecurringTick},
		{"budget_alerts", cfg.BudgetAlertCron, container.BudgetAlert.RunBudgetAlertTick},
		{"monthly_report", cfg.MonthlyReportCron, container.Reporting.RunMonthlyReportTick},
	}
	for _, t := range ticks {
		if err := sched.Register(t.name, t.spec, cfg.TickTimeout, t.run); err != nil {
			logger.Error("Failed to register tick", slog.String("tick", t.name), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	sched.Start()
	defer sched.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		cors.Default(),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
}

// newNotifier picks the delivery adapter: real SMTP when a host is
// configured, log-only otherwise.
func newNotifier(logger *slog.Logger, cfg *config.Config) portssvc.AlertNotifier {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP host not configured, notifications will only be logged")
		return email.NewLogNotifier()
	}
	notifier, err := email.NewSMTPNotifier(cfg)
	if err != nil {
		logger.Error("Failed to create SMTP notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("SMTP notifier configured", slog.String("host", cfg.SMTPHost))
	return notifier
}

// runMigrations applies all pending migrations from the migrations directory.
// A temporary database/sql connection is used because golang-migrate does not
// speak pgxpool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
