package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	portssvc "github.com/faizantanveeer/richloom-finance-app/internal/core/ports/services"
	"github.com/faizantanveeer/richloom-finance-app/internal/dto"
	"github.com/faizantanveeer/richloom-finance-app/internal/middleware"
)

// tickHandler triggers the scheduled ticks on demand. The cron loop invokes
// the same service entry points; these routes exist for operators and tests,
// and are safe to call at any time because every tick is idempotent.
type tickHandler struct {
	recurring   portssvc.RecurringSvcFacade
	budgetAlert portssvc.BudgetAlertSvcFacade
	reporting   portssvc.ReportingSvcFacade
}

func newTickHandler(services *portssvc.ServiceContainer) *tickHandler {
	return &tickHandler{
		recurring:   services.Recurring,
		budgetAlert: services.BudgetAlert,
		reporting:   services.Reporting,
	}
}

// registerTickRoutes registers the on-demand tick trigger routes.
func registerTickRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTickHandler(services)

	ticks := rg.Group("/ticks")
	{
		ticks.POST("/recurring", h.runRecurringTick)
		ticks.POST("/budget-alerts", h.runBudgetAlertTick)
		ticks.POST("/monthly-report", h.runMonthlyReportTick)
	}
}

func (h *tickHandler) runRecurringTick(c *gin.Context) {
	h.runTick(c, "recurring", h.recurring.RunRecurringTick)
}

func (h *tickHandler) runBudgetAlertTick(c *gin.Context) {
	h.runTick(c, "budget_alerts", h.budgetAlert.RunBudgetAlertTick)
}

func (h *tickHandler) runMonthlyReportTick(c *gin.Context) {
	h.runTick(c, "monthly_report", h.reporting.RunMonthlyReportTick)
}

func (h *tickHandler) runTick(c *gin.Context, name string, tick func(ctx context.Context, now time.Time) (domain.TickSummary, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("tick", name))
	ctx := middleware.ContextWithLogger(c.Request.Context(), logger)

	summary, err := tick(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Tick failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tick failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToTickResponse(summary))
}
