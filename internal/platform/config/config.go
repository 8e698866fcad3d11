package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	APIKey       string

	// Cron specs for the scheduled ticks.
	RecurringCron     string
	BudgetAlertCron   string
	MonthlyReportCron string

	// Tick execution bounds.
	TickTimeout          time.Duration // whole-tick budget used by the cron wiring
	TickUnitTimeout      time.Duration // per-unit budget inside a tick
	TickWorkerCount      int
	PerUserThrottleEvery time.Duration
	PerUserThrottleBurst int

	// Interactive API rate limit, e.g. "100-M" (100 requests per minute).
	RateLimit string

	// SMTP settings for the alert notifier. Empty host switches the service
	// to the logging notifier (no outbound email).
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("API_KEY", "")
	viper.SetDefault("RECURRING_CRON", "0 0 * * *")        // daily at midnight
	viper.SetDefault("BUDGET_ALERT_CRON", "0 */6 * * *")   // every 6 hours
	viper.SetDefault("MONTHLY_REPORT_CRON", "0 1 1 * *")   // 1st of each month
	viper.SetDefault("TICK_TIMEOUT", "10m")
	viper.SetDefault("TICK_UNIT_TIMEOUT", "30s")
	viper.SetDefault("TICK_WORKER_COUNT", 4)
	viper.SetDefault("PER_USER_THROTTLE_EVERY", "250ms")
	viper.SetDefault("PER_USER_THROTTLE_BURST", 2)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "alerts@richloom.app")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.APIKey = viper.GetString("API_KEY")
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set. Authenticated routes will reject all requests.")
	}

	cfg.RecurringCron = viper.GetString("RECURRING_CRON")
	cfg.BudgetAlertCron = viper.GetString("BUDGET_ALERT_CRON")
	cfg.MonthlyReportCron = viper.GetString("MONTHLY_REPORT_CRON")

	cfg.TickTimeout = parseDurationOrDefault("TICK_TIMEOUT", 10*time.Minute)
	cfg.TickUnitTimeout = parseDurationOrDefault("TICK_UNIT_TIMEOUT", 30*time.Second)
	cfg.TickWorkerCount = viper.GetInt("TICK_WORKER_COUNT")
	cfg.PerUserThrottleEvery = parseDurationOrDefault("PER_USER_THROTTLE_EVERY", 250*time.Millisecond)
	cfg.PerUserThrottleBurst = viper.GetInt("PER_USER_THROTTLE_BURST")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.SMTPFrom = viper.GetString("SMTP_FROM")

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
