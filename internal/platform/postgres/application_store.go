package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

const applicationColumns = `a.id, a.gig_id, a.applicant_id, a.cover_letter, a.status, a.created_at`

// applicationsUniqueConstraint guards one application per applicant per gig.
const applicationsUniqueConstraint = "applications_gig_applicant_key"

// PostgresApplicationStore implements the store.ApplicationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresApplicationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresApplicationStore creates a new PostgreSQL implementation of the ApplicationStore interface.
func NewPostgresApplicationStore(db store.DBTX, logger *slog.Logger) *PostgresApplicationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresApplicationStore{
		db:     db,
		logger: logger.With(slog.String("component", "application_store")),
	}
}

// Ensure PostgresApplicationStore implements store.ApplicationStore interface
var _ store.ApplicationStore = (*PostgresApplicationStore)(nil)

// WithTx implements store.ApplicationStore.WithTx
func (s *PostgresApplicationStore) WithTx(tx *sql.Tx) store.ApplicationStore {
	return &PostgresApplicationStore{db: tx, logger: s.logger}
}

func applicationDest(a *domain.Application, status *string) []any {
	return []any{&a.ID, &a.GigID, &a.ApplicantID, &a.CoverLetter, status, &a.CreatedAt}
}

// Create implements store.ApplicationStore.Create
func (s *PostgresApplicationStore) Create(ctx context.Context, a *domain.Application) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (id, gig_id, applicant_id, cover_letter, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.GigID, a.ApplicantID, a.CoverLetter, string(a.Status), a.CreatedAt)
	if err != nil {
		if ConstraintName(err) == applicationsUniqueConstraint {
			log.Debug("duplicate application rejected",
				slog.String("gig_id", a.GigID.String()),
				slog.String("applicant_id", a.ApplicantID.String()))
			return MapUniqueViolation(err, store.ErrAlreadyApplied)
		}
		log.Error("failed to create application",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", a.GigID.String()))
		return MapError(err)
	}

	log.Info("application created",
		slog.String("application_id", a.ID.String()),
		slog.String("gig_id", a.GigID.String()))
	return nil
}

// Exists implements store.ApplicationStore.Exists
func (s *PostgresApplicationStore) Exists(ctx context.Context, gigID, applicantID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE gig_id = $1 AND applicant_id = $2)`,
		gigID, applicantID).Scan(&exists)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check application",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", gigID.String()))
		return false, MapError(err)
	}
	return exists, nil
}

// GetByID implements store.ApplicationStore.GetByID
func (s *PostgresApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var a domain.Application
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id).
		Scan(applicationDest(&a, &status)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("application not found", slog.String("application_id", id.String()))
			return nil, store.ErrApplicationNotFound
		}
		log.Error("failed to get application",
			slog.String("error", redact.Error(err)),
			slog.String("application_id", id.String()))
		return nil, MapError(err)
	}
	a.Status = domain.ApplicationStatus(status)
	return &a, nil
}

// ListByGig implements store.ApplicationStore.ListByGig
func (s *PostgresApplicationStore) ListByGig(ctx context.Context, gigID uuid.UUID) ([]*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + applicationColumns + `, p.name, p.avatar_url, p.rating, p.bio, p.skills
		FROM applications a JOIN profiles p ON p.id = a.applicant_id
		WHERE a.gig_id = $1
		ORDER BY a.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, gigID)
	if err != nil {
		log.Error("failed to list applications for gig",
			slog.String("error", redact.Error(err)),
			slog.String("gig_id", gigID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	apps := []*domain.Application{}
	for rows.Next() {
		var a domain.Application
		var status string
		applicant := &domain.ProfileSummary{}
		dest := append(applicationDest(&a, &status),
			&applicant.Name, &applicant.AvatarURL, &applicant.Rating, &applicant.Bio,
			textArray(&applicant.Skills))
		if err := rows.Scan(dest...); err != nil {
			return nil, MapError(err)
		}
		a.Status = domain.ApplicationStatus(status)
		applicant.ID = a.ApplicantID
		a.Applicant = applicant
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return apps, nil
}

// ListByApplicant implements store.ApplicationStore.ListByApplicant
func (s *PostgresApplicationStore) ListByApplicant(
	ctx context.Context,
	applicantID uuid.UUID,
) ([]*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + applicationColumns + `, ` + gigColumns + `
		FROM applications a JOIN gigs g ON g.id = a.gig_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		log.Error("failed to list applications for applicant",
			slog.String("error", redact.Error(err)),
			slog.String("applicant_id", applicantID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	apps := []*domain.Application{}
	for rows.Next() {
		var a domain.Application
		var status, gigStatus string
		g := &domain.Gig{}
		dest := append(applicationDest(&a, &status), gigDest(g, &gigStatus)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, MapError(err)
		}
		a.Status = domain.ApplicationStatus(status)
		g.Status = domain.GigStatus(gigStatus)
		a.Gig = g
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return apps, nil
}

// UpdateStatus implements store.ApplicationStore.UpdateStatus
func (s *PostgresApplicationStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ApplicationStatus,
) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE applications SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update application status",
			slog.String("error", redact.Error(err)),
			slog.String("application_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrApplicationNotFound)
}
