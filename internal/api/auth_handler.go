package api

import (
	"log/slog"
	"net/http"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/service"
)

// AuthHandler handles signup, login, and the caller's own account.
type AuthHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.accounts.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create account")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("signup completed", slog.String("user_id", result.Profile.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success: true,
		User: UserSummary{
			ID:    result.Profile.ID,
			Email: result.Profile.Email,
			Name:  result.Profile.Name,
		},
		AccessToken: result.AccessToken,
		ExpiresAt:   formatExpiry(result.ExpiresAt),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:     true,
		User:        result.Profile,
		AccessToken: result.AccessToken,
		ExpiresAt:   formatExpiry(result.ExpiresAt),
	})
}

// GoogleLogin handles POST /api/auth/google.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.accounts.LoginFederated(r.Context(), service.FederatedLogin{
		Email:       req.Email,
		Name:        req.Name,
		AvatarURL:   req.AvatarURL,
		FirebaseUID: req.FirebaseUID,
		IDToken:     req.IDToken,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Success:     true,
		User:        result.Profile,
		AccessToken: result.AccessToken,
		ExpiresAt:   formatExpiry(result.ExpiresAt),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.accounts.Me(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, UserResponse{Success: true, User: profile})
}
