package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/careerplus/careerplus-api/internal/platform/postgres"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "gigs",
		ColumnName:     "title",
		ConstraintName: "test_constraint",
	}
}

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", newPgError("23505"), store.ErrDuplicate},
		{"foreign key", newPgError("23503"), store.ErrInvalidEntity},
		{"check", newPgError("23514"), store.ErrInvalidEntity},
		{"not null", newPgError("23502"), store.ErrInvalidEntity},
		{"wrapped unique", fmt.Errorf("insert: %w", newPgError("23505")), store.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped passes through", func(t *testing.T) {
		orig := newPgError("40001")
		assert.Same(t, orig, postgres.MapError(orig))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, postgres.IsUniqueViolation(nil))
	assert.False(t, postgres.IsUniqueViolation(errors.New("generic error")))
	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505"), store.ErrAlreadyApplied)
	assert.ErrorIs(t, err, store.ErrAlreadyApplied)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	err = postgres.MapUniqueViolation(newPgError("23503"), store.ErrAlreadyApplied)
	assert.NotErrorIs(t, err, store.ErrAlreadyApplied)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	require.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrGigNotFound))
	assert.ErrorIs(t,
		postgres.CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrGigNotFound),
		store.ErrGigNotFound)

	resErr := errors.New("driver failure")
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{err: resErr}, store.ErrGigNotFound), resErr)
	assert.Error(t, postgres.CheckRowsAffected(nil, store.ErrGigNotFound))
}
