package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadwatch/roadwatch/internal/config"
)

func newTestValidator(t *testing.T) *TokenValidator {
	t.Helper()
	v, err := NewTokenValidator(config.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)
	return v
}

func TestNewTokenValidator_RequiresSecret(t *testing.T) {
	_, err := NewTokenValidator(config.JWTConfig{})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestTokenValidator_RoundTrip(t *testing.T) {
	v := newTestValidator(t)

	token, err := v.Issue("operator@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", claims.Operator())
}

func TestTokenValidator_Rejects(t *testing.T) {
	v := newTestValidator(t)

	expired, err := v.Issue("operator@example.com", -time.Hour)
	require.NoError(t, err)

	other, err := NewTokenValidator(config.JWTConfig{Secret: "other-secret"})
	require.NoError(t, err)
	foreign, err := other.Issue("operator@example.com", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong secret", foreign},
		{"alg none", unsigned},
		{"no subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
