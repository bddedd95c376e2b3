package mocks

import (
	"context"

	"github.com/careerplus/careerplus-api/internal/service/auth"
)

// MockIdentityVerifier implements auth.IdentityVerifier for testing
type MockIdentityVerifier struct {
	VerifyFn func(ctx context.Context, rawToken string) (*auth.Identity, error)

	Identity *auth.Identity
	Err      error
}

// Verify implements auth.IdentityVerifier
func (m *MockIdentityVerifier) Verify(ctx context.Context, rawToken string) (*auth.Identity, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, rawToken)
	}
	return m.Identity, m.Err
}
