package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GigStatus represents the lifecycle state of a gig posting.
type GigStatus string

// Possible gig status values
const (
	GigStatusOpen       GigStatus = "open"
	GigStatusInProgress GigStatus = "in_progress"
	GigStatusCompleted  GigStatus = "completed"
	GigStatusCancelled  GigStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s GigStatus) Valid() bool {
	switch s {
	case GigStatusOpen, GigStatusInProgress, GigStatusCompleted, GigStatusCancelled:
		return true
	}
	return false
}

// Gig validation errors
var (
	ErrEmptyGigTitle       = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyGigDescription = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrEmptyGigLocation    = fmt.Errorf("%w: location cannot be empty", ErrValidation)
	ErrNegativeBudget      = fmt.Errorf("%w: budget cannot be negative", ErrValidation)
	ErrBudgetRange         = fmt.Errorf("%w: budget_max must not be below budget_min", ErrValidation)
	ErrPeopleNeeded        = fmt.Errorf("%w: people_needed must be at least 1", ErrValidation)
	ErrInvalidGigStatus    = fmt.Errorf("%w: invalid gig status", ErrValidation)
)

// Gig is a job posting.
type Gig struct {
	ID                uuid.UUID       `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Location          string          `json:"location"`
	BudgetMin         float64         `json:"budget_min"`
	BudgetMax         float64         `json:"budget_max"`
	DurationStart     string          `json:"duration_start"`
	DurationEnd       string          `json:"duration_end"`
	PeopleNeeded      int             `json:"people_needed"`
	IsUrgent          bool            `json:"is_urgent"`
	Status            GigStatus       `json:"status"`
	CreatedBy         uuid.UUID       `json:"created_by"`
	ApplicationsCount int             `json:"applications_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Creator           *ProfileSummary `json:"profiles,omitempty"`
}

// GigDraft carries the caller-supplied fields of a new gig.
type GigDraft struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Location      string  `json:"location"`
	BudgetMin     float64 `json:"budget_min"`
	BudgetMax     float64 `json:"budget_max"`
	DurationStart string  `json:"duration_start"`
	DurationEnd   string  `json:"duration_end"`
	PeopleNeeded  int     `json:"people_needed"`
	IsUrgent      bool    `json:"is_urgent"`
}

// NewGig creates an open gig owned by createdBy.
func NewGig(createdBy uuid.UUID, d GigDraft) (*Gig, error) {
	now := time.Now().UTC()
	if d.PeopleNeeded == 0 {
		d.PeopleNeeded = 1
	}
	g := &Gig{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(d.Title),
		Description:   strings.TrimSpace(d.Description),
		Category:      d.Category,
		Location:      strings.TrimSpace(d.Location),
		BudgetMin:     d.BudgetMin,
		BudgetMax:     d.BudgetMax,
		DurationStart: d.DurationStart,
		DurationEnd:   d.DurationEnd,
		PeopleNeeded:  d.PeopleNeeded,
		IsUrgent:      d.IsUrgent,
		Status:        GigStatusOpen,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the gig's invariants.
func (g *Gig) Validate() error {
	if g.ID == uuid.Nil || g.CreatedBy == uuid.Nil {
		return ErrInvalidID
	}
	if g.Title == "" {
		return ErrEmptyGigTitle
	}
	if g.Description == "" {
		return ErrEmptyGigDescription
	}
	if !IsCategory(g.Category) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, g.Category)
	}
	if g.Location == "" {
		return ErrEmptyGigLocation
	}
	if g.BudgetMin < 0 {
		return ErrNegativeBudget
	}
	if g.BudgetMax < g.BudgetMin {
		return ErrBudgetRange
	}
	if g.PeopleNeeded < 1 {
		return ErrPeopleNeeded
	}
	if !g.Status.Valid() {
		return ErrInvalidGigStatus
	}
	return nil
}

// OwnedBy reports whether userID posted the gig.
func (g *Gig) OwnedBy(userID uuid.UUID) bool {
	return g.CreatedBy == userID
}
