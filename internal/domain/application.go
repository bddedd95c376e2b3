package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents where an application stands with the gig owner.
type ApplicationStatus string

// Possible application status values
const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application is a freelancer's bid on a gig. At most one exists per
// (gig, applicant) pair.
type Application struct {
	ID          uuid.UUID         `json:"id"`
	GigID       uuid.UUID         `json:"gig_id"`
	ApplicantID uuid.UUID         `json:"applicant_id"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Applicant   *ProfileSummary   `json:"profiles,omitempty"`
	Gig         *Gig              `json:"gigs,omitempty"`
}

// NewApplication creates a pending application.
func NewApplication(gigID, applicantID uuid.UUID, coverLetter string) (*Application, error) {
	if gigID == uuid.Nil || applicantID == uuid.Nil {
		return nil, ErrInvalidID
	}
	return &Application{
		ID:          uuid.New(),
		GigID:       gigID,
		ApplicantID: applicantID,
		CoverLetter: coverLetter,
		Status:      ApplicationStatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
