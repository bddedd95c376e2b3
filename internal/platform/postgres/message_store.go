package postgres

import (
	"context"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// conversationsQuery returns the newest message and unread count per counterpart of $1.
const conversationsQuery = `
	WITH threads AS (
		SELECT
			CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other_id,
			m.content,
			m.created_at,
			(NOT m.is_read AND m.receiver_id = $1) AS unread
		FROM messages m
		WHERE m.sender_id = $1 OR m.receiver_id = $1
	), ranked AS (
		SELECT
			other_id,
			content,
			created_at,
			ROW_NUMBER() OVER (PARTITION BY other_id ORDER BY created_at DESC) AS rn,
			COUNT(*) FILTER (WHERE unread) OVER (PARTITION BY other_id) AS unread_count
		FROM threads
	)
	SELECT r.other_id, p.name, p.avatar_url, r.content, r.created_at, r.unread_count
	FROM ranked r
	JOIN profiles p ON p.id = r.other_id
	WHERE r.rn = 1
	ORDER BY r.created_at DESC`

// PostgresMessageStore implements the store.MessageStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMessageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMessageStore creates a new PostgreSQL implementation of the MessageStore interface.
func NewPostgresMessageStore(db store.DBTX, logger *slog.Logger) *PostgresMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMessageStore{
		db:     db,
		logger: logger.With(slog.String("component", "message_store")),
	}
}

// Ensure PostgresMessageStore implements store.MessageStore interface
var _ store.MessageStore = (*PostgresMessageStore)(nil)

// Create implements store.MessageStore.Create
func (s *PostgresMessageStore) Create(ctx context.Context, m *domain.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var gigID any
	if m.GigID != nil {
		gigID = *m.GigID
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, gig_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.SenderID, m.ReceiverID, gigID, m.Content, m.IsRead, m.CreatedAt)
	if err != nil {
		log.Error("failed to create message",
			slog.String("error", redact.Error(err)),
			slog.String("sender_id", m.SenderID.String()))
		return MapError(err)
	}
	log.Debug("message created", slog.String("message_id", m.ID.String()))
	return nil
}

// ListBetween implements store.MessageStore.ListBetween
func (s *PostgresMessageStore) ListBetween(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, gig_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, a, b)
	if err != nil {
		log.Error("failed to list messages", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	msgs := []*domain.Message{}
	for rows.Next() {
		var m domain.Message
		var gigID uuid.NullUUID
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &gigID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		if gigID.Valid {
			id := gigID.UUID
			m.GigID = &id
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return msgs, nil
}

// MarkRead implements store.MessageStore.MarkRead
func (s *PostgresMessageStore) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND NOT is_read`,
		receiverID, senderID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to mark messages read",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Conversations implements store.MessageStore.Conversations
func (s *PostgresMessageStore) Conversations(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, conversationsQuery, userID)
	if err != nil {
		log.Error("failed to list conversations",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	convs := []*domain.Conversation{}
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(
			&c.OtherUserID,
			&c.OtherUserName,
			&c.OtherUserAvatar,
			&c.LastMessage,
			&c.LastMessageAt,
			&c.UnreadCount,
		); err != nil {
			return nil, MapError(err)
		}
		convs = append(convs, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return convs, nil
}
