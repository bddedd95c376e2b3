package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/mocks"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	handler  *AuthHandler
	profiles *mocks.MockProfileStore
	expires  time.Time
}

func newAuthFixture(t *testing.T, identity auth.IdentityVerifier) *authFixture {
	t.Helper()
	profiles := mocks.NewMockProfileStore()
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tokens := &mocks.MockJWTService{Token: "signed-token", ExpiresAt: expires}
	accounts := service.NewAccountService(profiles, tokens, auth.NewBcryptVerifier(bcrypt.MinCost), identity, testLogger())
	return &authFixture{
		handler:  NewAuthHandler(accounts, testLogger()),
		profiles: profiles,
		expires:  expires,
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("creates account and issues token", func(t *testing.T) {
		f := newAuthFixture(t, nil)

		rec := serve(t, f.handler.Signup, testRequest{
			method: http.MethodPost,
			path:   "/api/auth/signup",
			body:   SignupRequest{Email: "ama@example.com", Password: "s3cret", Name: "Ama"},
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[map[string]interface{}](t, rec)
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, "signed-token", resp["access_token"])
		assert.Equal(t, "2030-01-02T03:04:05Z", resp["expires_at"])
		user := resp["user"].(map[string]interface{})
		assert.Equal(t, "ama@example.com", user["email"])
		assert.Equal(t, "Ama", user["name"])
		assert.NotContains(t, rec.Body.String(), "s3cret")

		require.Len(t, f.profiles.Profiles, 1)
		for _, p := range f.profiles.Profiles {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("s3cret")))
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		body := SignupRequest{Email: "ama@example.com", Password: "s3cret", Name: "Ama"}

		first := serve(t, f.handler.Signup, testRequest{method: http.MethodPost, path: "/s", body: body})
		require.Equal(t, http.StatusOK, first.Code)
		second := serve(t, f.handler.Signup, testRequest{method: http.MethodPost, path: "/s", body: body})

		assert.Equal(t, http.StatusBadRequest, second.Code)
		assert.Equal(t, "Email already registered", errorDetail(t, second))
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		rec := serve(t, f.handler.Signup, testRequest{
			method: http.MethodPost,
			path:   "/s",
			body:   SignupRequest{Email: "nope", Password: "pw", Name: "Ama"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email: invalid email format", errorDetail(t, rec))
	})
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t, nil)
	signup := serve(t, f.handler.Signup, testRequest{
		method: http.MethodPost,
		path:   "/s",
		body:   SignupRequest{Email: "kofi@example.com", Password: "right-password", Name: "Kofi"},
	})
	require.Equal(t, http.StatusOK, signup.Code)

	tests := []struct {
		name           string
		body           LoginRequest
		expectedStatus int
	}{
		{"correct password", LoginRequest{Email: "kofi@example.com", Password: "right-password"}, http.StatusOK},
		{"wrong password", LoginRequest{Email: "kofi@example.com", Password: "wrong"}, http.StatusUnauthorized},
		{"unknown email", LoginRequest{Email: "who@example.com", Password: "right-password"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, f.handler.Login, testRequest{method: http.MethodPost, path: "/l", body: tt.body})
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				resp := decodeBody[map[string]interface{}](t, rec)
				user := resp["user"].(map[string]interface{})
				assert.Equal(t, "Kofi", user["name"])
				assert.Contains(t, user, "is_freelancer")
				assert.NotContains(t, rec.Body.String(), "password")
			} else {
				assert.Equal(t, "Invalid credentials", errorDetail(t, rec))
			}
		})
	}
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	req := GoogleLoginRequest{
		Email:       "efua@example.com",
		Name:        "Efua",
		FirebaseUID: "fb-123",
		IDToken:     "id-token",
	}

	t.Run("not configured", func(t *testing.T) {
		f := newAuthFixture(t, nil)
		rec := serve(t, f.handler.GoogleLogin, testRequest{method: http.MethodPost, path: "/g", body: req})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Google sign-in is not configured", errorDetail(t, rec))
	})

	t.Run("creates profile for verified identity", func(t *testing.T) {
		f := newAuthFixture(t, &mocks.MockIdentityVerifier{Identity: &auth.Identity{Email: "EFUA@example.com"}})
		rec := serve(t, f.handler.GoogleLogin, testRequest{method: http.MethodPost, path: "/g", body: req})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, f.profiles.Profiles, 1)
		for _, p := range f.profiles.Profiles {
			assert.Equal(t, "fb-123", p.FirebaseUID)
			assert.Empty(t, p.PasswordHash)
		}
	})

	t.Run("identity for another email", func(t *testing.T) {
		f := newAuthFixture(t, &mocks.MockIdentityVerifier{Identity: &auth.Identity{Email: "mallory@example.com"}})
		rec := serve(t, f.handler.GoogleLogin, testRequest{method: http.MethodPost, path: "/g", body: req})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, f.profiles.Profiles)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	p, err := domain.NewProfile("yaw@example.com", "Yaw")
	require.NoError(t, err)
	f := newAuthFixture(t, nil)
	f.profiles.Profiles[p.ID] = p

	t.Run("authenticated", func(t *testing.T) {
		rec := serve(t, f.handler.Me, testRequest{method: http.MethodGet, path: "/me", userID: p.ID})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[UserResponse](t, rec)
		assert.Equal(t, p.ID, resp.User.ID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := serve(t, f.handler.Me, testRequest{method: http.MethodGet, path: "/me"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted profile", func(t *testing.T) {
		rec := serve(t, f.handler.Me, testRequest{method: http.MethodGet, path: "/me", userID: uuid.New()})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Profile not found", errorDetail(t, rec))
	})
}
