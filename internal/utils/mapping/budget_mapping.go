package mapping

import (
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
	"github.com/faizantanveeer/richloom-finance-app/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget.
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:        d.BudgetID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		LastAlertSentAt: d.LastAlertSentAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget.
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:        m.BudgetID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		LastAlertSentAt: m.LastAlertSentAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
