package api

import (
	"time"

	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// Request payloads

// SignupRequest defines the payload for the signup endpoint.
type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name"     validate:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest defines the payload for federated sign-in.
type GoogleLoginRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	FirebaseUID string `json:"firebase_uid" validate:"required"`
	IDToken     string `json:"id_token"     validate:"required"`
}

// FreelancerRegisterRequest defines the payload for freelancer registration.
type FreelancerRegisterRequest struct {
	Categories   []string `json:"categories"   validate:"required,min=1"`
	Availability string   `json:"availability"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	HourlyRate   *float64 `json:"hourly_rate"  validate:"omitempty,gte=0"`
}

// CreateGigRequest defines the payload for posting a gig.
type CreateGigRequest struct {
	Title         string  `json:"title"          validate:"required"`
	Description   string  `json:"description"    validate:"required"`
	Category      string  `json:"category"       validate:"required"`
	Location      string  `json:"location"       validate:"required"`
	BudgetMin     float64 `json:"budget_min"     validate:"gte=0"`
	BudgetMax     float64 `json:"budget_max"     validate:"gtefield=BudgetMin"`
	DurationStart string  `json:"duration_start"`
	DurationEnd   string  `json:"duration_end"`
	PeopleNeeded  *int    `json:"people_needed"  validate:"omitempty,gte=1"`
	IsUrgent      bool    `json:"is_urgent"`
}

func (req CreateGigRequest) draft() domain.GigDraft {
	people := 1
	if req.PeopleNeeded != nil {
		people = *req.PeopleNeeded
	}
	return domain.GigDraft{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		BudgetMin:     req.BudgetMin,
		BudgetMax:     req.BudgetMax,
		DurationStart: req.DurationStart,
		DurationEnd:   req.DurationEnd,
		PeopleNeeded:  people,
		IsUrgent:      req.IsUrgent,
	}
}

// ApplyRequest defines the payload for applying to a gig.
type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

// SendMessageRequest defines the payload for sending a direct message.
type SendMessageRequest struct {
	ReceiverID uuid.UUID  `json:"receiver_id" validate:"required"`
	Content    string     `json:"content"     validate:"required"`
	GigID      *uuid.UUID `json:"gig_id"`
}

// CreateReviewRequest defines the payload for reviewing a user.
type CreateReviewRequest struct {
	ReviewedUserID uuid.UUID `json:"reviewed_user_id" validate:"required"`
	GigID          uuid.UUID `json:"gig_id"           validate:"required"`
	Rating         int       `json:"rating"           validate:"required,min=1,max=5"`
	Comment        string    `json:"comment"`
}

// ChatRequest defines the payload for the web assistant.
type ChatRequest struct {
	Message string                 `json:"message" validate:"required"`
	Context *assistant.ChatContext `json:"context"`
}

// TelegramChatRequest drives the bot conversation without Telegram.
type TelegramChatRequest struct {
	ChatID   int64  `json:"chat_id"   validate:"required"`
	Message  string `json:"message"   validate:"required"`
	UserName string `json:"user_name"`
}

// Response payloads

// UserSummary is the account part of a signup response.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Success bool `json:"success"`
	// User is a UserSummary after signup and the full profile after login.
	User        interface{} `json:"user"`
	AccessToken string      `json:"access_token"`
	// ExpiresAt is the RFC 3339 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// UserResponse is returned by GET /api/auth/me.
type UserResponse struct {
	Success bool            `json:"success"`
	User    *domain.Profile `json:"user"`
}

// ProfileResponse wraps a single profile.
type ProfileResponse struct {
	Success bool            `json:"success"`
	Profile *domain.Profile `json:"profile"`
}

// FreelancersResponse wraps a freelancer listing.
type FreelancersResponse struct {
	Success     bool              `json:"success"`
	Freelancers []*domain.Profile `json:"freelancers"`
	Count       int               `json:"count"`
}

// GigResponse wraps a single gig.
type GigResponse struct {
	Success bool        `json:"success"`
	Gig     *domain.Gig `json:"gig"`
}

// GigsResponse wraps a gig listing.
type GigsResponse struct {
	Success bool          `json:"success"`
	Gigs    []*domain.Gig `json:"gigs"`
	Count   int           `json:"count,omitempty"`
	Message string        `json:"message,omitempty"`
}

// ApplicationResponse wraps a single application.
type ApplicationResponse struct {
	Success     bool                `json:"success"`
	Application *domain.Application `json:"application"`
}

// ApplicationsResponse wraps an application listing.
type ApplicationsResponse struct {
	Success      bool                  `json:"success"`
	Applications []*domain.Application `json:"applications"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Success bool            `json:"success"`
	Message *domain.Message `json:"message"`
}

// MessagesResponse wraps a message thread.
type MessagesResponse struct {
	Success  bool              `json:"success"`
	Messages []*domain.Message `json:"messages"`
}

// ConversationsResponse wraps the conversation list.
type ConversationsResponse struct {
	Success       bool                   `json:"success"`
	Conversations []*domain.Conversation `json:"conversations"`
}

// ReviewResponse wraps a single review.
type ReviewResponse struct {
	Success bool           `json:"success"`
	Review  *domain.Review `json:"review"`
}

// ReviewsResponse wraps a review listing.
type ReviewsResponse struct {
	Success bool             `json:"success"`
	Reviews []*domain.Review `json:"reviews"`
}

// SuccessResponse carries only the success flag.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
