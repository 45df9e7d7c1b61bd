// Package auth validates the access tokens issued to operators by the
// external authentication service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roadwatch/roadwatch/internal/config"
)

// Token validation errors
var (
	ErrNoSecret     = errors.New("jwt secret is not configured")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenClaims represents the claims in an operator access token. The auth
// service puts the operator email in the subject.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Operator returns the operator identity carried by the token
func (c *TokenClaims) Operator() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

// TokenValidator checks HS256 tokens signed with the shared secret
type TokenValidator struct {
	secret []byte
	leeway time.Duration
}

// NewTokenValidator creates a new TokenValidator
func NewTokenValidator(cfg config.JWTConfig) (*TokenValidator, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	return &TokenValidator{secret: []byte(cfg.Secret), leeway: 30 * time.Second}, nil
}

// Validate parses a token and returns its claims
func (v *TokenValidator) Validate(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Operator() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Issue signs a token for operator. The auth service is the real issuer;
// this exists for tests and local tooling.
func (v *TokenValidator) Issue(operator string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
