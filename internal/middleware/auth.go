package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/roadwatch/roadwatch/internal/auth"
)

// OperatorKey is the context key of the authenticated operator
const OperatorKey contextKey = "operator"

// Auth creates an authentication middleware that validates operator tokens
func (m *Middleware) Auth(validator *auth.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.cfg.Security.JWT.Disabled {
				ctx := context.WithValue(r.Context(), OperatorKey, "anonymous")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			var tokenString string

			// 1. Try Authorization header first
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
					tokenString = parts[1]
				}
			}

			// 2. Fall back to the auth service cookie
			if tokenString == "" {
				if cookie, err := r.Cookie(m.cfg.Security.JWT.CookieName); err == nil && cookie.Value != "" {
					tokenString = cookie.Value
				}
			}

			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			if validator == nil {
				m.log.Error().Msg("operator auth enabled without a token validator")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			claims, err := validator.Validate(tokenString)
			if err != nil {
				m.log.Debug().Err(err).Msg("token validation failed")
				writeJSONError(w, http.StatusUnauthorized, "token_expired", "The access token is invalid or expired")
				return
			}

			ctx := context.WithValue(r.Context(), OperatorKey, claims.Operator())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOperator retrieves the authenticated operator from context
func GetOperator(ctx context.Context) string {
	if op, ok := ctx.Value(OperatorKey).(string); ok {
		return op
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
