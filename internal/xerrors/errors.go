package xerrors

import "fmt"

// ValidationError reports missing or malformed caller input. Never retried.
type ValidationError struct {
	Reason string // Human-readable reason for rejection
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Validation builds a ValidationError from a format string
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// LimitExceededError reports a mutation that would push a capped section's
// invested total above its statutory limit. Carries the limit and the total
// the caller attempted to reach.
type LimitExceededError struct {
	Section   string  // Section code, e.g. "80C"
	Limit     float64 // Statutory cap for the section
	Attempted float64 // Invested total the mutation would have produced
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("section %s: attempted total %.0f exceeds limit of %.0f", e.Section, e.Attempted, e.Limit)
}

// NotFoundError reports a missing ledger, slot or record.
type NotFoundError struct {
	Resource string // What was looked up, e.g. "section", "investment slot"
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// NotFound builds a NotFoundError for the named resource
func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ConflictError reports a concurrent write detected during an optimistic
// update, or a duplicate create racing on a uniqueness constraint. The
// wallet service retries these internally; callers only see one after
// retries are exhausted.
type ConflictError struct {
	Key string // Identifies the contended ledger key
}

func (e *ConflictError) Error() string {
	return "concurrent update conflict on " + e.Key
}

// Conflict builds a ConflictError for the given key
func Conflict(key string) *ConflictError {
	return &ConflictError{Key: key}
}
