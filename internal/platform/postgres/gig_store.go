package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

const gigColumns = `
	g.id, g.title, g.description, g.category, g.location, g.budget_min, g.budget_max,
	g.duration_start, g.duration_end, g.people_needed, g.is_urgent, g.status, g.created_by,
	g.applications_count, g.created_at, g.updated_at`

const gigCreatorColumns = `, c.name, c.avatar_url, c.rating, c.bio`

const gigFromCreator = ` FROM gigs g JOIN profiles c ON c.id = g.created_by`

// PostgresGigStore implements the store.GigStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGigStore creates a new PostgreSQL implementation of the GigStore interface.
func NewPostgresGigStore(db store.DBTX, logger *slog.Logger) *PostgresGigStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGigStore{
		db:     db,
		logger: logger.With(slog.String("component", "gig_store")),
	}
}

// Ensure PostgresGigStore implements store.GigStore interface
var _ store.GigStore = (*PostgresGigStore)(nil)

// WithTx implements store.GigStore.WithTx
func (s *PostgresGigStore) WithTx(tx *sql.Tx) store.GigStore {
	return &PostgresGigStore{db: tx, logger: s.logger}
}

func gigDest(g *domain.Gig, status *string) []any {
	return []any{
		&g.ID,
		&g.Title,
		&g.Description,
		&g.Category,
		&g.Location,
		&g.BudgetMin,
		&g.BudgetMax,
		&g.DurationStart,
		&g.DurationEnd,
		&g.PeopleNeeded,
		&g.IsUrgent,
		status,
		&g.CreatedBy,
		&g.ApplicationsCount,
		&g.CreatedAt,
		&g.UpdatedAt,
	}
}

func scanGig(row rowScanner) (*domain.Gig, error) {
	var g domain.Gig
	var status string
	if err := row.Scan(gigDest(&g, &status)...); err != nil {
		return nil, err
	}
	g.Status = domain.GigStatus(status)
	return &g, nil
}

func scanGigWithCreator(row rowScanner) (*domain.Gig, error) {
	var g domain.Gig
	var status string
	creator := &domain.ProfileSummary{}
	dest := append(gigDest(&g, &status), &creator.Name, &creator.AvatarURL, &creator.Rating, &creator.Bio)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	g.Status = domain.GigStatus(status)
	creator.ID = g.CreatedBy
	g.Creator = creator
	return &g, nil
}

// Create implements store.GigStore.Create
func (s *PostgresGigStore) Create(ctx context.Context, g *domain.Gig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := g.Validate(); err != nil {
		log.Warn("gig validation failed during create",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", g.ID.String()))
		return err
	}

	query := `
		INSERT INTO gigs (
			id, title, description, category, location, budget_min, budget_max,
			duration_start, duration_end, people_needed, is_urgent, status, created_by,
			applications_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		g.ID,
		g.Title,
		g.Description,
		g.Category,
		g.Location,
		g.BudgetMin,
		g.BudgetMax,
		g.DurationStart,
		g.DurationEnd,
		g.PeopleNeeded,
		g.IsUrgent,
		string(g.Status),
		g.CreatedBy,
		g.ApplicationsCount,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create gig",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", g.ID.String()),
			slog.String("created_by", g.CreatedBy.String()))
		return MapError(err)
	}

	log.Info("gig created successfully",
		slog.String("gig_id", g.ID.String()),
		slog.String("category", g.Category))
	return nil
}

// GetByID implements store.GigStore.GetByID
func (s *PostgresGigStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + gigColumns + gigCreatorColumns + gigFromCreator + ` WHERE g.id = $1`
	g, err := scanGigWithCreator(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("gig not found", slog.String("gig_id", id.String()))
			return nil, store.ErrGigNotFound
		}
		log.Error("failed to get gig",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", id.String()))
		return nil, MapError(err)
	}
	return g, nil
}

// List implements store.GigStore.List
func (s *PostgresGigStore) List(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var c conditions
	if f.Status != "" {
		c.add("g.status = ?", string(f.Status))
	}
	if f.Category != "" {
		c.add("g.category = ?", f.Category)
	}
	if len(f.Categories) > 0 {
		c.add("g.category = ANY(?)", f.Categories)
	}
	if f.Location != "" {
		c.add("g.location ILIKE ?", containsPattern(f.Location))
	}
	if f.IsUrgent != nil {
		c.add("g.is_urgent = ?", *f.IsUrgent)
	}
	limit := c.next(store.NormalizeLimit(f.Limit))
	offset := c.next(max(f.Offset, 0))

	order := ` ORDER BY g.created_at DESC`
	if f.UrgentFirst {
		order = ` ORDER BY g.is_urgent DESC, g.created_at DESC`
	}

	query := `SELECT ` + gigColumns + gigCreatorColumns + gigFromCreator + c.where() + order +
		` LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := s.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		log.Error("failed to list gigs", slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	gigs := []*domain.Gig{}
	for rows.Next() {
		g, err := scanGigWithCreator(rows)
		if err != nil {
			return nil, MapError(err)
		}
		// Listings embed the short creator card only.
		g.Creator.Bio = ""
		gigs = append(gigs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed gigs", slog.Int("count", len(gigs)))
	return gigs, nil
}

// ListByCreator implements store.GigStore.ListByCreator
func (s *PostgresGigStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + gigColumns + ` FROM gigs g WHERE g.created_by = $1 ORDER BY g.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list gigs by creator",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	gigs := []*domain.Gig{}
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, MapError(err)
		}
		gigs = append(gigs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return gigs, nil
}

// CountOpen implements store.GigStore.CountOpen
func (s *PostgresGigStore) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gigs WHERE status = $1`, string(domain.GigStatusOpen)).Scan(&n)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count open gigs",
			slog.String("error", redact.Error(err)))
		return 0, MapError(err)
	}
	return n, nil
}

// IncrementApplications implements store.GigStore.IncrementApplications
func (s *PostgresGigStore) IncrementApplications(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE gigs SET applications_count = applications_count + 1, updated_at = $2 WHERE id = $1`,
		id, time.Now().UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to increment applications",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrGigNotFound)
}
