package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile validation errors
var (
	ErrEmptyProfileID   = fmt.Errorf("%w: profile ID cannot be empty", ErrValidation)
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most 72 bytes long", ErrValidation)
	ErrNoCategories     = fmt.Errorf("%w: at least one category is required", ErrValidation)
	ErrInvalidCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrNegativeHourRate = fmt.Errorf("%w: hourly rate cannot be negative", ErrValidation)
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// Profile is a marketplace account. The same row represents clients and,
// once registered, freelancers.
type Profile struct {
	ID                     uuid.UUID `json:"id"`
	Email                  string    `json:"email,omitempty"`
	Name                   string    `json:"name"`
	PasswordHash           string    `json:"-"`
	AvatarURL              string    `json:"avatar_url,omitempty"`
	Bio                    string    `json:"bio,omitempty"`
	Location               string    `json:"location,omitempty"`
	Phone                  string    `json:"phone,omitempty"`
	Skills                 []string  `json:"skills"`
	IsFreelancer           bool      `json:"is_freelancer"`
	FreelancerCategories   []string  `json:"freelancer_categories"`
	FreelancerAvailability string    `json:"freelancer_availability,omitempty"`
	HourlyRate             *float64  `json:"hourly_rate,omitempty"`
	Rating                 float64   `json:"rating"`
	TotalReviews           int       `json:"total_reviews"`
	ShowPhone              bool      `json:"show_phone"`
	ShowEmail              bool      `json:"show_email"`
	FirebaseUID            string    `json:"-"`
	TelegramChatID         *int64    `json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// NewProfile creates a password-less profile with a fresh ID, zero rating,
// and is_freelancer false. Callers set PasswordHash or FirebaseUID.
func NewProfile(email, name string) (*Profile, error) {
	now := time.Now().UTC()
	p := &Profile{
		ID:                   uuid.New(),
		Email:                strings.TrimSpace(email),
		Name:                 strings.TrimSpace(name),
		Skills:               []string{},
		FreelancerCategories: []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants every stored profile must satisfy.
func (p *Profile) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProfileID
	}
	if p.Name == "" {
		return ErrEmptyName
	}
	// Telegram-only profiles have no email until the user links one.
	if p.Email != "" && !ValidEmail(p.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// Public returns a copy safe to show other users: phone and email are
// dropped unless the owner opted in.
func (p *Profile) Public() *Profile {
	cp := *p
	if !p.ShowPhone {
		cp.Phone = ""
	}
	if !p.ShowEmail {
		cp.Email = ""
	}
	return &cp
}

// Summary returns the subset embedded in gig, application, and review
// listings.
func (p *Profile) Summary() ProfileSummary {
	return ProfileSummary{
		ID:        p.ID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Rating:    p.Rating,
		Bio:       p.Bio,
		Skills:    p.Skills,
	}
}

// ProfileSummary is the embedded view of another user.
type ProfileSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Rating    float64   `json:"rating"`
	Bio       string    `json:"bio,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
}

// ProfileUpdate is a partial update. Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string   `json:"name"`
	Bio       *string   `json:"bio"`
	Location  *string   `json:"location"`
	Skills    *[]string `json:"skills"`
	AvatarURL *string   `json:"avatar_url"`
	Phone     *string   `json:"phone"`
	ShowPhone *bool     `json:"show_phone"`
	ShowEmail *bool     `json:"show_email"`
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Bio == nil && u.Location == nil && u.Skills == nil &&
		u.AvatarURL == nil && u.Phone == nil && u.ShowPhone == nil && u.ShowEmail == nil
}

// Apply writes the non-nil fields onto p and bumps UpdatedAt.
func (u ProfileUpdate) Apply(p *Profile) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return ErrEmptyName
		}
		p.Name = name
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Skills != nil {
		p.Skills = *u.Skills
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.ShowPhone != nil {
		p.ShowPhone = *u.ShowPhone
	}
	if u.ShowEmail != nil {
		p.ShowEmail = *u.ShowEmail
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// FreelancerRegistration turns a profile into a freelancer profile.
type FreelancerRegistration struct {
	Categories   []string `json:"categories"`
	Availability string   `json:"availability"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
}

// Validate checks the categories against the taxonomy and the rate sign.
func (r FreelancerRegistration) Validate() error {
	if len(r.Categories) == 0 {
		return ErrNoCategories
	}
	for _, c := range r.Categories {
		if !IsCategory(c) {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
	}
	if r.HourlyRate != nil && *r.HourlyRate < 0 {
		return ErrNegativeHourRate
	}
	return nil
}

// Apply marks p as a freelancer with the registration details.
func (r FreelancerRegistration) Apply(p *Profile) {
	p.IsFreelancer = true
	p.FreelancerCategories = r.Categories
	p.FreelancerAvailability = r.Availability
	p.Location = r.Location
	p.Bio = r.Bio
	p.HourlyRate = r.HourlyRate
	p.UpdatedAt = time.Now().UTC()
}

// ValidatePassword enforces the only password policy: non-empty and within
// bcrypt's input limit.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidEmail performs a basic syntactic check.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, ".")
}
