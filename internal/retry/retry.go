// internal/retry/retry.go
package retry

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// Policy is the shared contention-retry policy injected into every
// transactional operation: bounded attempts, fixed delay, and a predicate
// deciding which failures are worth another attempt. Any non-retryable
// error aborts immediately.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// ErrBusy is returned once the attempt bound is exhausted; callers surface
// it as a try-again condition, not a hard failure.
var ErrBusy = errors.New("operation retried past the contention bound")

// NewPolicy builds a policy with the default contention classifier.
func NewPolicy(maxAttempts int, delay time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Delay:       delay,
		Retryable:   IsContention,
	}
}

// Do runs fn up to MaxAttempts times. Retryable failures sleep for the
// configured delay and try again; anything else is returned as-is. When
// the bound is exhausted the last error is wrapped under ErrBusy so callers
// can match on the category while keeping the cause.
func (p Policy) Do(fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		retryable := p.Retryable != nil && p.Retryable(lastErr)
		if !retryable {
			return lastErr
		}

		logrus.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": p.MaxAttempts,
		}).WithError(lastErr).Warn("Retrying contended database operation")

		if attempt < p.MaxAttempts {
			time.Sleep(p.Delay)
		}
	}

	return errors.Join(ErrBusy, lastErr)
}

// Postgres SQLSTATE codes that indicate contention rather than a broken
// statement: serialization failure, deadlock, and lock-not-available.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// IsContention classifies lock-wait timeouts, deadlocks, and serialization
// failures uniformly as retryable.
func IsContention(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return true
		}
		return false
	}

	// Fallback for drivers that only surface message text.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "lock wait timeout") ||
		strings.Contains(msg, "could not obtain lock")
}

// IsDuplicateKey reports whether err is a unique-constraint violation and,
// when the driver exposes it, the constraint name for a field hint.
func IsDuplicateKey(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return "", true
	}
	return "", false
}
