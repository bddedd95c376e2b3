package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
)

// PostgresSessionStore implements assistant.SessionStore over the
// assistant_sessions table. Rows past expires_at read as absent.
type PostgresSessionStore struct {
	db     store.DBTX
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewPostgresSessionStore creates a session store whose rows expire ttl after
// their last save.
func NewPostgresSessionStore(db store.DBTX, ttl time.Duration, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		db:     db,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements assistant.SessionStore interface
var _ assistant.SessionStore = (*PostgresSessionStore)(nil)

func sessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Get implements assistant.SessionStore.Get
func (s *PostgresSessionStore) Get(ctx context.Context, chatID int64) (*assistant.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var state []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM assistant_sessions WHERE session_key = $1 AND expires_at > $2`,
		sessionKey(chatID), s.now().UTC()).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assistant.NewSession(chatID), nil
		}
		log.Error("failed to load session",
			slog.String("error", redact.Error(err)),
			slog.Int64("chat_id", chatID))
		return nil, MapError(err)
	}

	sess := assistant.NewSession(chatID)
	if err := json.Unmarshal(state, sess); err != nil {
		// Unreadable state is dropped rather than wedging the chat.
		log.Warn("discarding corrupt session state",
			slog.String("error", redact.Error(err)),
			slog.Int64("chat_id", chatID))
		return assistant.NewSession(chatID), nil
	}
	sess.ChatID = chatID
	return sess, nil
}

// Save implements assistant.SessionStore.Save
func (s *PostgresSessionStore) Save(ctx context.Context, sess *assistant.Session) error {
	now := s.now().UTC()
	sess.UpdatedAt = now

	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO assistant_sessions (session_key, state, updated_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_key) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at
	`, sessionKey(sess.ChatID), state, now, now.Add(s.ttl))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save session",
			slog.String("error", redact.Error(err)),
			slog.Int64("chat_id", sess.ChatID))
		return MapError(err)
	}
	return nil
}

// Delete implements assistant.SessionStore.Delete
func (s *PostgresSessionStore) Delete(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM assistant_sessions WHERE session_key = $1`, sessionKey(chatID))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete session",
			slog.String("error", redact.Error(err)),
			slog.Int64("chat_id", chatID))
		return MapError(err)
	}
	return nil
}

// DeleteExpired removes rows past their expiry and returns how many were removed.
func (s *PostgresSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM assistant_sessions WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete expired sessions",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	return result.RowsAffected()
}
