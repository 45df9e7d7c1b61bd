package router

import (
	"net/http"

	"github.com/roadwatch/roadwatch/internal/auth"
	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/handler"
	"github.com/roadwatch/roadwatch/internal/metrics"
	"github.com/roadwatch/roadwatch/internal/middleware"
)

// New creates and configures the HTTP router. validator may be nil when
// operator authentication is disabled.
func New(h *handler.Handler, mw *middleware.Middleware, cfg *config.Config, validator *auth.TokenValidator) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints (no auth required)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"RoadWatch API v1","version":"` + handler.Version + `"}`))
	})

	// Protected routes (require operator token)
	authMw := mw.Auth(validator)

	submitRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "submit",
		Limit:  cfg.Security.RateLimiting.SubmitLimit,
		Window: cfg.Security.RateLimiting.SubmitWindow,
		KeyFn:  middleware.OperatorOrIPKey,
	})

	mux.Handle("GET /api/v1/directory", authMw(http.HandlerFunc(h.GetDirectory)))

	// Alert sessions
	mux.Handle("POST /api/v1/accidents/{id}/alert-sessions", authMw(http.HandlerFunc(h.CreateAlertSession)))
	mux.Handle("GET /api/v1/alert-sessions/{id}", authMw(http.HandlerFunc(h.GetAlertSession)))
	mux.Handle("DELETE /api/v1/alert-sessions/{id}", authMw(http.HandlerFunc(h.DeleteAlertSession)))
	mux.Handle("POST /api/v1/alert-sessions/{id}/reload", authMw(http.HandlerFunc(h.ReloadAlertSession)))
	mux.Handle("POST /api/v1/alert-sessions/{id}/contacts/toggle-all", authMw(http.HandlerFunc(h.ToggleAllContacts)))
	mux.Handle("POST /api/v1/alert-sessions/{id}/contacts/{contactId}/toggle", authMw(http.HandlerFunc(h.ToggleContact)))
	mux.Handle("POST /api/v1/alert-sessions/{id}/submit", authMw(submitRateLimit(http.HandlerFunc(h.SubmitAlert))))
	mux.Handle("GET /api/v1/alert-sessions/{id}/notice", authMw(http.HandlerFunc(h.GetNotice)))

	// Apply middleware stack
	var handler http.Handler = mux

	handler = mw.CORS(handler)

	// Security headers
	handler = mw.SecurityHeaders(handler)

	// Request logging
	handler = mw.Logger(handler)

	// Request ID
	handler = mw.RequestID(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
