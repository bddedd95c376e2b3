package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// emailUniqueIndex is the case-insensitive unique index on profiles.email.
const emailUniqueIndex = "profiles_email_lower_key"

const profileColumns = `
	p.id, COALESCE(p.email, ''), p.name, COALESCE(p.password_hash, ''), p.avatar_url, p.bio,
	p.location, p.phone, p.skills, p.is_freelancer, p.freelancer_categories,
	p.freelancer_availability, p.hourly_rate, p.rating, p.total_reviews, p.show_phone,
	p.show_email, COALESCE(p.firebase_uid, ''), p.telegram_chat_id, p.created_at, p.updated_at`

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var hourlyRate sql.NullFloat64
	var chatID sql.NullInt64
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.PasswordHash,
		&p.AvatarURL,
		&p.Bio,
		&p.Location,
		&p.Phone,
		textArray(&p.Skills),
		&p.IsFreelancer,
		textArray(&p.FreelancerCategories),
		&p.FreelancerAvailability,
		&hourlyRate,
		&p.Rating,
		&p.TotalReviews,
		&p.ShowPhone,
		&p.ShowEmail,
		&p.FirebaseUID,
		&chatID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if hourlyRate.Valid {
		v := hourlyRate.Float64
		p.HourlyRate = &v
	}
	if chatID.Valid {
		v := chatID.Int64
		p.TelegramChatID = &v
	}
	p.Skills = nonNilStrings(p.Skills)
	p.FreelancerCategories = nonNilStrings(p.FreelancerCategories)
	return &p, nil
}

func chatIDArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func hourlyRateArg(rate *float64) any {
	if rate == nil {
		return nil
	}
	return *rate
}

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", redact.Error(err)),
			slog.String("profile_id", p.ID.String()))
		return err
	}

	query := `
		INSERT INTO profiles (
			id, email, name, password_hash, avatar_url, bio, location, phone, skills,
			is_freelancer, freelancer_categories, freelancer_availability, hourly_rate,
			rating, total_reviews, show_phone, show_email, firebase_uid, telegram_chat_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		nullableString(p.Email),
		p.Name,
		nullableString(p.PasswordHash),
		p.AvatarURL,
		p.Bio,
		p.Location,
		p.Phone,
		nonNilStrings(p.Skills),
		p.IsFreelancer,
		nonNilStrings(p.FreelancerCategories),
		p.FreelancerAvailability,
		hourlyRateArg(p.HourlyRate),
		p.Rating,
		p.TotalReviews,
		p.ShowPhone,
		p.ShowEmail,
		nullableString(p.FirebaseUID),
		chatIDArg(p.TelegramChatID),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("profile create hit a unique constraint",
				slog.String("profile_id", p.ID.String()),
				slog.String("constraint", ConstraintName(err)))
			if ConstraintName(err) == emailUniqueIndex {
				return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
			}
			return MapError(err)
		}
		log.Error("failed to create profile",
			slog.String("error", redact.Error(err)),
			slog.String("profile_id", p.ID.String()))
		return MapError(err)
	}

	log.Info("profile created successfully", slog.String("profile_id", p.ID.String()))
	return nil
}

func (s *PostgresProfileStore) getOne(ctx context.Context, what string, where string, arg any) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE ` + where
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("lookup", what))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("lookup", what),
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	return p, nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *PostgresProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.getOne(ctx, "id", "p.id = $1", id)
}

// GetByEmail implements store.ProfileStore.GetByEmail
func (s *PostgresProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return s.getOne(ctx, "email", "LOWER(p.email) = LOWER($1)", strings.TrimSpace(email))
}

// GetByFirebaseUID implements store.ProfileStore.GetByFirebaseUID
func (s *PostgresProfileStore) GetByFirebaseUID(ctx context.Context, uid string) (*domain.Profile, error) {
	return s.getOne(ctx, "firebase_uid", "p.firebase_uid = $1", uid)
}

// GetByTelegramChatID implements store.ProfileStore.GetByTelegramChatID
func (s *PostgresProfileStore) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.Profile, error) {
	return s.getOne(ctx, "telegram_chat_id", "p.telegram_chat_id = $1", chatID)
}

// Update implements store.ProfileStore.Update
func (s *PostgresProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return err
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}

	query := `
		UPDATE profiles SET
			email = $2, name = $3, password_hash = $4, avatar_url = $5, bio = $6,
			location = $7, phone = $8, skills = $9, is_freelancer = $10,
			freelancer_categories = $11, freelancer_availability = $12, hourly_rate = $13,
			show_phone = $14, show_email = $15, firebase_uid = $16, telegram_chat_id = $17,
			updated_at = $18
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		p.ID,
		nullableString(p.Email),
		p.Name,
		nullableString(p.PasswordHash),
		p.AvatarURL,
		p.Bio,
		p.Location,
		p.Phone,
		nonNilStrings(p.Skills),
		p.IsFreelancer,
		nonNilStrings(p.FreelancerCategories),
		p.FreelancerAvailability,
		hourlyRateArg(p.HourlyRate),
		p.ShowPhone,
		p.ShowEmail,
		nullableString(p.FirebaseUID),
		chatIDArg(p.TelegramChatID),
		p.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", redact.Error(err)),
			slog.String("profile_id", p.ID.String()))
		if ConstraintName(err) == emailUniqueIndex {
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrProfileNotFound); err != nil {
		return err
	}

	log.Debug("profile updated", slog.String("profile_id", p.ID.String()))
	return nil
}

// UpdateRating implements store.ProfileStore.UpdateRating
func (s *PostgresProfileStore) UpdateRating(
	ctx context.Context,
	id uuid.UUID,
	rating float64,
	totalReviews int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET rating = $2, total_reviews = $3, updated_at = $4 WHERE id = $1`,
		id, rating, totalReviews, time.Now().UTC())
	if err != nil {
		log.Error("failed to update profile rating",
			slog.String("error", redact.Error(err)),
			slog.String("profile_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProfileNotFound)
}

// ListFreelancers implements store.ProfileStore.ListFreelancers
func (s *PostgresProfileStore) ListFreelancers(
	ctx context.Context,
	f store.FreelancerFilter,
) ([]*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c conditions
	c.clauses = append(c.clauses, "p.is_freelancer")
	if f.Category != "" {
		c.add("p.freelancer_categories @> ARRAY[?]::text[]", f.Category)
	}
	if f.Location != "" {
		c.add("p.location ILIKE ?", containsPattern(f.Location))
	}
	limit := c.next(store.NormalizeLimit(f.Limit))
	offset := c.next(max(f.Offset, 0))

	query := `SELECT ` + profileColumns + ` FROM profiles p` + c.where() +
		` ORDER BY p.rating DESC, p.total_reviews DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := s.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		log.Error("failed to list freelancers", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, MapError(err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return profiles, nil
}

// CountFreelancers implements store.ProfileStore.CountFreelancers
func (s *PostgresProfileStore) CountFreelancers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE is_freelancer`).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count freelancers",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	return n, nil
}
