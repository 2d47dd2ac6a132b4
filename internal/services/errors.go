// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benepisyo/benefits-backend/internal/retry"
)

// Sentinel errors for the non-retryable failure categories. Contention is
// classified by the retry package; everything else the store throws is
// wrapped as a PersistenceError so raw driver text never reaches callers.
var (
	ErrUnknownApplicant        = errors.New("applicant code does not exist")
	ErrUnknownDocumentKind     = errors.New("unknown document kind")
	ErrUnknownNotificationType = errors.New("unknown notification type")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrAccountNotFound         = errors.New("account not found")
)

// DuplicateEmailError carries the existing applicant code as a recovery
// hint; callers may treat it as success-with-existing-code.
type DuplicateEmailError struct {
	Email string
	Code  string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("an application already exists for %s", e.Email)
}

// ConstraintViolationError wraps a duplicate-key failure with a best-effort
// field hint extracted from the constraint name.
type ConstraintViolationError struct {
	Field string
	cause error
}

func (e *ConstraintViolationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("duplicate value for %s", e.Field)
	}
	return "duplicate value violates a uniqueness constraint"
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.cause
}

// PersistenceError is the generic non-retryable store failure.
type PersistenceError struct {
	cause error
}

func (e *PersistenceError) Error() string {
	return "persistence failure"
}

func (e *PersistenceError) Unwrap() error {
	return e.cause
}

// wrapStoreError maps a raw store error into the taxonomy. Contention is
// passed through untouched so the retry policy can see it.
func wrapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if retry.IsContention(err) {
		return err
	}
	if constraint, ok := retry.IsDuplicateKey(err); ok {
		return &ConstraintViolationError{Field: fieldFromConstraint(constraint), cause: err}
	}
	return &PersistenceError{cause: err}
}

// fieldFromConstraint turns a constraint name like idx_applicants_email
// into the trailing column hint.
func fieldFromConstraint(constraint string) string {
	if constraint == "" {
		return ""
	}
	parts := strings.Split(constraint, "_")
	if len(parts) < 2 {
		return constraint
	}
	return parts[len(parts)-1]
}

// IsBusy reports whether err is the post-retry contention failure.
func IsBusy(err error) bool {
	return errors.Is(err, retry.ErrBusy)
}
