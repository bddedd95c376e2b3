package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}

// Create implements store.ReviewStore.Create
func (s *PostgresReviewStore) Create(ctx context.Context, r *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, reviewer_id, reviewed_user_id, gig_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.ID, r.ReviewerID, r.ReviewedUserID, r.GigID, r.Rating, r.Comment, r.CreatedAt)
	if err != nil {
		log.Error("failed to create review",
			slog.String("error", redact.Error(err)),
			slog.String("reviewed_user_id", r.ReviewedUserID.String()))
		return MapError(err)
	}
	log.Info("review created",
		slog.String("review_id", r.ID.String()),
		slog.Int("rating", r.Rating))
	return nil
}

// ListForUser implements store.ReviewStore.ListForUser
func (s *PostgresReviewStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.reviewer_id, r.reviewed_user_id, r.gig_id, r.rating, r.comment, r.created_at,
			p.name, p.avatar_url
		FROM reviews r JOIN profiles p ON p.id = r.reviewer_id
		WHERE r.reviewed_user_id = $1
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reviews := []*domain.Review{}
	for rows.Next() {
		var r domain.Review
		reviewer := &domain.ProfileSummary{}
		if err := rows.Scan(
			&r.ID, &r.ReviewerID, &r.ReviewedUserID, &r.GigID, &r.Rating, &r.Comment, &r.CreatedAt,
			&reviewer.Name, &reviewer.AvatarURL,
		); err != nil {
			return nil, MapError(err)
		}
		reviewer.ID = r.ReviewerID
		r.Reviewer = reviewer
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// RatingsFor implements store.ReviewStore.RatingsFor
func (s *PostgresReviewStore) RatingsFor(ctx context.Context, userID uuid.UUID) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rating FROM reviews WHERE reviewed_user_id = $1`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read ratings",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ratings := []int{}
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, MapError(err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return ratings, nil
}
