package dto

import (
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
)

// TickResponse reports the aggregate outcome of one scheduler invocation.
type TickResponse struct {
	RunAt     time.Time `json:"runAt"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Alerted   int       `json:"alerted,omitempty"`
}

// ToTickResponse converts a domain.TickSummary to TickResponse DTO
func ToTickResponse(s domain.TickSummary) TickResponse {
	return TickResponse{
		RunAt:     s.RunAt,
		Total:     s.Total,
		Processed: s.Processed,
		Skipped:   s.Skipped,
		Failed:    s.Failed,
		Alerted:   s.Alerted,
	}
}
