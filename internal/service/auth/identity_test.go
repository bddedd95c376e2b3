package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestNewGoogleVerifier_DisabledWithoutAudience(t *testing.T) {
	assert.Nil(t, NewGoogleVerifier(""))
}

func TestGoogleVerifier_Verify(t *testing.T) {
	v := &GoogleVerifier{
		audience: "client-id",
		validate: func(_ context.Context, tok, aud string) (*idtoken.Payload, error) {
			if tok != "good" || aud != "client-id" {
				return nil, errors.New("bad token")
			}
			return &idtoken.Payload{
				Subject: "g-123",
				Claims: map[string]interface{}{
					"email":          "ada@example.com",
					"email_verified": true,
					"name":           "Ada",
				},
			}, nil
		},
	}
	ctx := context.Background()

	id, err := v.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "g-123", id.Subject)
	assert.Equal(t, "Ada", id.Name)
	assert.True(t, id.MatchesEmail(" ADA@example.com"))
	assert.False(t, id.MatchesEmail("eve@example.com"))

	_, err = v.Verify(ctx, "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestGoogleVerifier_UnverifiedEmail(t *testing.T) {
	v := &GoogleVerifier{
		audience: "client-id",
		validate: func(context.Context, string, string) (*idtoken.Payload, error) {
			return &idtoken.Payload{Claims: map[string]interface{}{
				"email":          "ada@example.com",
				"email_verified": false,
			}}, nil
		},
	}
	_, err := v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
