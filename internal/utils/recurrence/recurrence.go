package recurrence

import (
	"fmt"
	"time"

	"github.com/faizantanveeer/richloom-finance-app/internal/apperrors"
	"github.com/faizantanveeer/richloom-finance-app/internal/core/domain"
)

// NextOccurrence computes the next due date for a recurring schedule from an
// anchor date. Pure and deterministic; no I/O.
//
// Monthly and yearly increments clamp to the last valid day of the target
// month (Jan 31 -> Feb 28/29, Feb 29 -> Feb 28 on non-leap years).
// time.AddDate normalizes overflow, so Jan 31 + 1 month would otherwise land
// on Mar 2 or Mar 3.
func NextOccurrence(anchor time.Time, unit domain.IntervalUnit) (time.Time, error) {
	switch unit {
	case domain.Daily:
		return anchor.AddDate(0, 0, 1), nil
	case domain.Weekly:
		return anchor.AddDate(0, 0, 7), nil
	case domain.Monthly:
		return addMonthsClamped(anchor, 1), nil
	case domain.Yearly:
		return addYearsClamped(anchor, 1), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidInterval, unit)
	}
}

// MonthWindow returns the inclusive start and end instants of the calendar
// month containing now, in now's location.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// PreviousMonthWindow returns the inclusive start and end instants of the
// calendar month before the one containing now. Used by monthly reporting.
func PreviousMonthWindow(now time.Time) (time.Time, time.Time) {
	startOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return startOfThis.AddDate(0, -1, 0), startOfThis.Add(-time.Nanosecond)
}

// SameCalendarMonth reports whether a and b fall in the same calendar month
// and year. The budget evaluator uses this to decide whether an alert has
// already been sent for the current period.
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func addMonthsClamped(t time.Time, months int) time.Time {
	// Anchor at the first of the month so AddDate cannot overflow, then clamp
	// the day-of-month to what the target month actually has.
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, months, 0)
	day := t.Day()
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func addYearsClamped(t time.Time, years int) time.Time {
	day := t.Day()
	if last := daysIn(t.Year()+years, t.Month()); day > last {
		day = last
	}
	return time.Date(t.Year()+years, t.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
