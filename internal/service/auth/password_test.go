package auth

import (
	"strings"
	"testing"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)

	hash, err := v.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, v.Compare(hash, "correct horse"))
	assert.Error(t, v.Compare(hash, "wrong horse"))
}

func TestBcryptVerifier_HashRejects(t *testing.T) {
	v := NewBcryptVerifier(bcrypt.MinCost)

	_, err := v.Hash("")
	assert.ErrorIs(t, err, domain.ErrEmptyPassword)

	_, err = v.Hash(strings.Repeat("a", domain.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
}

func TestNewBcryptVerifier_CostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptVerifier(99).cost)
	assert.Equal(t, 12, NewBcryptVerifier(12).cost)
}
