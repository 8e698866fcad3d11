package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitStatus classifies the outcome of one independent unit of work in a tick.
type UnitStatus string

const (
	UnitProcessed UnitStatus = "PROCESSED"
	UnitSkipped   UnitStatus = "SKIPPED"
	UnitFailed    UnitStatus = "FAILED"
)

// UnitOutcome records what happened to a single schedule or budget within a
// tick run. Failures are per-unit; they never propagate to sibling units.
type UnitOutcome struct {
	ItemID string
	Status UnitStatus
	Err    error
}

// TickSummary aggregates the outcomes of one scheduler invocation. A tick
// reports counts instead of failing wholesale when at least one unit ran.
type TickSummary struct {
	RunAt     time.Time `json:"runAt"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Alerted   int       `json:"alerted,omitempty"`
}

// Record folds a unit outcome into the summary.
func (s *TickSummary) Record(o UnitOutcome) {
	s.Total++
	switch o.Status {
	case UnitProcessed:
		s.Processed++
	case UnitSkipped:
		s.Skipped++
	case UnitFailed:
		s.Failed++
	}
}

// CategorySummary is one line of a monthly report: total spent or received in
// a category within the reporting window.
type CategorySummary struct {
	Category string          `json:"category"`
	Type     TransactionType `json:"type"`
	Total    decimal.Decimal `json:"total"`
}
