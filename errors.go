package finagent

import (
	"errors"
	"fmt"
)

// ValidationError reports bad user input: zero amount, malformed date,
// non-positive timeframe. It is surfaced directly to the caller and
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ExternalServiceError reports a failed or timed-out language-model
// round trip. Every consumer recovers with a deterministic fallback;
// this error never crashes the agent.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: model unavailable: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// PlanError reports that a model-generated analysis plan could not be
// executed: malformed JSON, a field outside the closed query language,
// an expression error, or a timeout. Execution is aborted and the
// ledger and memory are left untouched.
type PlanError struct {
	Plan   string // the offending plan text, kept for audit
	Reason string
	Err    error
}

func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis plan rejected: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("analysis plan rejected: %s", e.Reason)
}

func (e *PlanError) Unwrap() error { return e.Err }

// PersistenceError reports a failed durable read or write. The
// operation's in-memory effect is preserved; the agent stays usable in
// session.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
