package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
	"github.com/faizantanveeer/richloom-finance-app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", getHealth)

	// Setup API v1 routes with API key auth and rate limiting
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.APIKeyAuth(cfg.APIKey), middleware.RateLimit(newIPLimiter(cfg.RateLimit)))

	// Tick and user routes carry no acting-user scope
	registerTickRoutes(v1, services)
	registerUserRoutes(v1, services.User)

	// Everything else is owned data and needs the identity header
	scoped := v1.Group("", middleware.RequireUser())
	registerAccountRoutes(scoped, services.Account)
	registerTransactionRoutes(scoped, services.Transaction)
	registerBudgetRoutes(scoped, services.Budget)
}

// newIPLimiter builds an in-memory per-IP limiter from a formatted rate
// string such as "100-M".
func newIPLimiter(formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid rate limit format, falling back to 100-M", slog.String("value", formatted))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	return limiter.New(memory.NewStore(), rate)
}
