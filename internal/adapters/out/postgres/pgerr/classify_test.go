package pgerr_test

import (
	"context"
	"errors"
	"testing"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, errs.ErrAlreadyExists},
		{"serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, errs.ErrConcurrencyConflict},
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, errs.ErrConcurrencyConflict},
		{"admin shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, errs.ErrTransient},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, errs.ErrTransient},
		{"deadline", context.DeadlineExceeded, errs.ErrTransient},
		{"not found", gorm.ErrRecordNotFound, errs.ErrObjectNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := pgerr.Classify("save order", "order", "o-1", tc.err)

			require.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestClassify_KeepsUnknownErrors(t *testing.T) {
	cause := errors.New("syntax")

	err := pgerr.Classify("save order", "order", "o-1", cause)

	require.ErrorIs(t, err, cause)
	assert.False(t, errs.IsRetryable(err))
	assert.NoError(t, pgerr.Classify("save order", "order", "o-1", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, pgerr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, pgerr.IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.CheckViolation}))
}
