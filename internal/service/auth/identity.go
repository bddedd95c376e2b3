package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// Identity is what a federated provider vouches for.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier checks a federated ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

// validateFunc matches idtoken.Validate.
type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier validates Google-signed ID tokens for one audience.
type GoogleVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier returns nil when audience is empty, which disables
// federated sign-in.
func NewGoogleVerifier(audience string) *GoogleVerifier {
	if audience == "" {
		return nil
	}
	return &GoogleVerifier{audience: audience, validate: idtoken.Validate}
}

// Verify implements IdentityVerifier.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if rawToken == "" {
		return nil, ErrMissingToken
	}
	payload, err := v.validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := &Identity{Subject: payload.Subject}
	id.Email, _ = payload.Claims["email"].(string)
	id.Name, _ = payload.Claims["name"].(string)
	id.Picture, _ = payload.Claims["picture"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}
	return id, nil
}

// MatchesEmail compares case-insensitively.
func (i *Identity) MatchesEmail(email string) bool {
	return i != nil && i.Email != "" && strings.EqualFold(i.Email, strings.TrimSpace(email))
}
