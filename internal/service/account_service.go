package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/service/auth"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// AuthResult is returned by every successful sign-in path.
type AuthResult struct {
	Profile     *domain.Profile
	AccessToken string
	ExpiresAt   time.Time
}

// FederatedLogin carries a sign-in through an external identity provider.
type FederatedLogin struct {
	Email       string
	Name        string
	AvatarURL   string
	FirebaseUID string
	IDToken     string
}

// AccountService handles signup and the sign-in flows.
type AccountService interface {
	// Signup creates a password profile and signs the user in.
	Signup(ctx context.Context, email, password, name string) (*AuthResult, error)

	// Login checks the password and issues a token. Every failure other
	// than a store outage is auth.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// LoginFederated verifies the ID token and finds or creates the profile.
	LoginFederated(ctx context.Context, req FederatedLogin) (*AuthResult, error)

	// Me returns the caller's own profile.
	Me(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
}

type accountServiceImpl struct {
	profiles store.ProfileStore
	tokens   auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	identity auth.IdentityVerifier
	logger   *slog.Logger
}

// NewAccountService creates an AccountService. identity may be nil, which
// disables federated sign-in.
func NewAccountService(
	profiles store.ProfileStore,
	tokens auth.JWTService,
	passwords *auth.BcryptVerifier,
	identity auth.IdentityVerifier,
	logger *slog.Logger,
) AccountService {
	return newAccountService(profiles, tokens, passwords, passwords, identity, logger)
}

func newAccountService(
	profiles store.ProfileStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	identity auth.IdentityVerifier,
	logger *slog.Logger,
) *accountServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &accountServiceImpl{
		profiles: profiles,
		tokens:   tokens,
		hasher:   hasher,
		verifier: verifier,
		identity: identity,
		logger:   logger.With("component", "account_service"),
	}
}

func (s *accountServiceImpl) issue(ctx context.Context, p *domain.Profile) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(ctx, p.ID, p.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Profile: p, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Signup implements AccountService.
func (s *accountServiceImpl) Signup(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrEmptyEmail
	}
	profile, err := domain.NewProfile(email, name)
	if err != nil {
		return nil, err
	}

	// The unique index still catches a concurrent signup that passes this check.
	if _, err := s.profiles.GetByEmail(ctx, email); err == nil {
		s.logger.Debug("signup with registered email")
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	profile.PasswordHash, err = s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			s.logger.Error("failed to create profile", "error", redact.Error(err))
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("profile created", "user_id", profile.ID)
	return s.issue(ctx, profile)
}

// Login implements AccountService.
func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile.PasswordHash == "" {
		s.logger.Debug("password login for federated profile", "user_id", profile.ID)
		return nil, auth.ErrInvalidCredentials
	}
	if err := s.verifier.Compare(profile.PasswordHash, password); err != nil {
		s.logger.Debug("password mismatch", "user_id", profile.ID)
		return nil, auth.ErrInvalidCredentials
	}
	return s.issue(ctx, profile)
}

// LoginFederated implements AccountService.
func (s *accountServiceImpl) LoginFederated(ctx context.Context, req FederatedLogin) (*AuthResult, error) {
	if s.identity == nil {
		return nil, auth.ErrFederationDisabled
	}
	if req.FirebaseUID == "" {
		return nil, fmt.Errorf("%w: firebase_uid is required", domain.ErrValidation)
	}
	id, err := s.identity.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, err
	}
	if !id.MatchesEmail(req.Email) {
		return nil, auth.ErrIdentityMismatch
	}

	profile, err := s.profiles.GetByFirebaseUID(ctx, req.FirebaseUID)
	if err == nil {
		return s.issue(ctx, profile)
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	profile, err = s.profiles.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		profile.FirebaseUID = req.FirebaseUID
		if req.AvatarURL != "" {
			profile.AvatarURL = req.AvatarURL
		}
		profile.UpdatedAt = time.Now().UTC()
		if err := s.profiles.Update(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to link federated identity: %w", err)
		}
		s.logger.Info("linked federated identity", "user_id", profile.ID)
	case errors.Is(err, store.ErrProfileNotFound):
		name := req.Name
		if name == "" {
			name = id.Name
		}
		if name == "" {
			name = strings.SplitN(req.Email, "@", 2)[0]
		}
		profile, err = domain.NewProfile(req.Email, name)
		if err != nil {
			return nil, err
		}
		profile.FirebaseUID = req.FirebaseUID
		profile.AvatarURL = req.AvatarURL
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		s.logger.Info("profile created from federated login", "user_id", profile.ID)
	default:
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	return s.issue(ctx, profile)
}

// Me implements AccountService.
func (s *accountServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}
