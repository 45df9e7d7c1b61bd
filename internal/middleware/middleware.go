package middleware

import (
	"context"
	"time"

	"github.com/roadwatch/roadwatch/internal/config"
	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/logger"
)

// WindowCounter counts hits in a fixed window. *database.Redis implements it.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Middleware holds all HTTP middleware
type Middleware struct {
	counter WindowCounter
	log     *logger.Logger
	cfg     *config.Config
}

// New creates a new Middleware instance. rdb may be nil, in which case rate
// limits are not enforced.
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Middleware {
	m := &Middleware{
		log: log,
		cfg: cfg,
	}
	if rdb != nil {
		m.counter = rdb
	}
	return m
}

// WithCounter replaces the rate limit counter
func (m *Middleware) WithCounter(c WindowCounter) *Middleware {
	m.counter = c
	return m
}
