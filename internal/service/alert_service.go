package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roadwatch/roadwatch/internal/accident"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/metrics"
	"github.com/roadwatch/roadwatch/internal/model"
	"github.com/roadwatch/roadwatch/internal/view"
)

// Alert service errors
var (
	ErrSessionNotFound = errors.New("alert session not found")
	ErrAccidentIDEmpty = errors.New("accident id is required")
)

// AlertService owns the alert sessions of all connected operators.
// Sessions never share mutable state; the service only indexes them.
type AlertService struct {
	deps    view.Deps
	idleTTL time.Duration
	log     *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*view.Session
}

// NewAlertService creates a new AlertService
func NewAlertService(deps view.Deps, idleTTL time.Duration, log *logger.Logger) *AlertService {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &AlertService{
		deps:     deps,
		idleTTL:  idleTTL,
		log:      log.WithComponent("alert_service"),
		sessions: make(map[string]*view.Session),
	}
}

// Directory returns the rescue-team template
func (s *AlertService) Directory() []model.RescueTeamContact {
	return s.deps.Directory.Contacts()
}

// Open starts a session for an accident and loads the record. An unknown
// accident is reported and no session is kept.
func (s *AlertService) Open(ctx context.Context, accidentID string) (*view.Session, error) {
	if accidentID == "" {
		return nil, ErrAccidentIDEmpty
	}

	sess := view.NewSession(uuid.New().String(), accidentID, s.deps)
	if err := sess.Load(ctx); err != nil {
		if errors.Is(err, accident.ErrNotFound) {
			if s.deps.Notices != nil {
				_ = s.deps.Notices.Clear(ctx, sess.ID())
			}
			return nil, err
		}
		// Provider trouble: keep the session in Loading so the operator can reload
		s.log.Warn().Err(err).Str("accident_id", accidentID).Msg("opened alert session without accident data")
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	metrics.AlertSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.log.Info().
		Str("session_id", sess.ID()).
		Str("accident_id", accidentID).
		Str("state", string(sess.State())).
		Msg("alert session opened")
	return sess, nil
}

// Get returns a session by id
func (s *AlertService) Get(id string) (*view.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close discards a session and its notice
func (s *AlertService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	metrics.AlertSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if s.deps.Notices != nil {
		if err := s.deps.Notices.Clear(ctx, id); err != nil {
			return fmt.Errorf("failed to clear notice: %w", err)
		}
	}
	return nil
}

// Len returns the number of open sessions
func (s *AlertService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle drops sessions idle for longer than the idle TTL along with
// their notices. Sessions in the middle of a submit are kept.
func (s *AlertService) EvictIdle(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	var evicted []string
	for id, sess := range s.sessions {
		if sess.State() == view.StateSubmitting {
			continue
		}
		if now.Sub(sess.LastActive()) > s.idleTTL {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	metrics.AlertSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if s.deps.Notices != nil {
		for _, id := range evicted {
			if err := s.deps.Notices.Clear(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("session_id", id).Msg("failed to clear notice of evicted session")
			}
		}
	}
	return len(evicted)
}

// Run evicts idle sessions until ctx is done
func (s *AlertService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.EvictIdle(ctx, now); n > 0 {
				s.log.Debug().Int("evicted", n).Msg("evicted idle alert sessions")
			}
		}
	}
}
