// internal/retry/retry_test.go
package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDoStopsAtAttemptBound(t *testing.T) {
	policy := NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Do(func() error {
		calls++
		return &pgconn.PgError{Code: "40P01"}
	})

	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, ErrBusy)

	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr, "the last cause stays reachable")
}

func TestDoSucceedsAfterTransientFailure(t *testing.T) {
	policy := NewPolicy(3, time.Millisecond)

	calls := 0
	err := policy.Do(func() error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoReturnsNonRetryableImmediately(t *testing.T) {
	policy := NewPolicy(3, time.Millisecond)

	broken := errors.New("syntax error at or near")
	calls := 0
	err := policy.Do(func() error {
		calls++
		return broken
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, broken)
	assert.NotErrorIs(t, err, ErrBusy)
}

func TestIsContention(t *testing.T) {
	assert.True(t, IsContention(&pgconn.PgError{Code: "40001"}))
	assert.True(t, IsContention(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsContention(&pgconn.PgError{Code: "55P03"}))
	assert.False(t, IsContention(&pgconn.PgError{Code: "23505"}))

	assert.True(t, IsContention(errors.New("deadlock detected on table accounts")))
	assert.True(t, IsContention(errors.New("Lock wait timeout exceeded")))
	assert.False(t, IsContention(errors.New("connection refused")))
	assert.False(t, IsContention(nil))
}

func TestIsDuplicateKey(t *testing.T) {
	constraint, ok := IsDuplicateKey(&pgconn.PgError{Code: "23505", ConstraintName: "idx_applicants_email"})
	assert.True(t, ok)
	assert.Equal(t, "idx_applicants_email", constraint)

	_, ok = IsDuplicateKey(&pgconn.PgError{Code: "40001"})
	assert.False(t, ok)

	_, ok = IsDuplicateKey(errors.New("UNIQUE constraint failed: applicants.email"))
	assert.True(t, ok)
}
