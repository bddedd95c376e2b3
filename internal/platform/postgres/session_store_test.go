package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_GetMissingReturnsFreshSession(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, time.Hour, nil)

	mock.ExpectQuery(`SELECT state FROM assistant_sessions WHERE session_key = \$1 AND expires_at > \$2`).
		WithArgs("42", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"state"}))

	sess, err := s.Get(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), sess.ChatID)
	assert.Equal(t, assistant.ModeNone, sess.Mode)
}

func TestSessionStore_GetDecodesState(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, time.Hour, nil)

	stored := assistant.NewSession(-1001)
	stored.Start(assistant.ModePostGig)
	stored.Step = 2
	stored.Answers["title"] = "Logo"
	stored.Remember(llm.RoleUser, "post a gig", 30)
	state, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT state FROM assistant_sessions`).
		WithArgs("-1001", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow(state))

	sess, err := s.Get(context.Background(), -1001)

	require.NoError(t, err)
	assert.Equal(t, assistant.ModePostGig, sess.Mode)
	assert.Equal(t, 2, sess.Step)
	assert.Equal(t, "Logo", sess.Answers["title"])
	require.Len(t, sess.History, 1)
}

func TestSessionStore_GetCorruptStateStartsOver(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, time.Hour, nil)

	mock.ExpectQuery(`SELECT state FROM assistant_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow([]byte(`{"mode":`)))

	sess, err := s.Get(context.Background(), 5)

	require.NoError(t, err)
	assert.False(t, sess.InWizard())
}

func TestSessionStore_Save(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, 30*time.Minute, nil)
	sess := assistant.NewSession(9)
	sess.Start(assistant.ModeRegisterFreelancer)

	mock.ExpectExec(`INSERT INTO assistant_sessions .* ON CONFLICT \(session_key\) DO UPDATE`).
		WithArgs("9", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Save(context.Background(), sess))
	assert.False(t, sess.UpdatedAt.IsZero())
}

func TestSessionStore_GetDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, time.Hour, nil)

	mock.ExpectQuery(`SELECT state FROM assistant_sessions`).WillReturnError(errors.New("connection reset"))

	_, err := s.Get(context.Background(), 1)
	assert.Error(t, err)
}

func TestSessionStore_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresSessionStore(db, time.Hour, nil)

	mock.ExpectExec(`DELETE FROM assistant_sessions WHERE expires_at <= \$1`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
