package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidInterval indicates a recurring schedule carries an unknown interval unit.
// This is fatal for the affected schedule and must not be retried automatically.
var ErrInvalidInterval = errors.New("invalid recurring interval")

// ErrAlreadyProcessed indicates a schedule was no longer due when the atomic
// materialization unit re-checked it. Not a failure: another run already
// advanced the schedule pointer for this occurrence.
var ErrAlreadyProcessed = errors.New("schedule already processed for this occurrence")

// ErrNoDefaultAccount indicates a budget's owner has no default account to
// evaluate spend against. The budget is skipped, not retried.
var ErrNoDefaultAccount = errors.New("user has no default account")

// IsFatalForItem reports whether an error should stop automatic retries for the
// affected schedule or budget. Everything else is treated as transient: the
// unit's due-state is unchanged after rollback, so the next tick retries it.
func IsFatalForItem(err error) bool {
	return errors.Is(err, ErrInvalidInterval) || errors.Is(err, ErrValidation)
}
