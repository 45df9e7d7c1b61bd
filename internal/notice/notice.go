// Package notice carries operator-facing notifications. Every notice is
// keyed by its alert session, so a newer notice replaces an older one.
package notice

import (
	"context"
	"errors"
	"sync"

	"github.com/roadwatch/roadwatch/internal/model"
)

// ErrNoNotice is returned when a session has no current notice
var ErrNoNotice = errors.New("no notice for session")

// Publisher is the notice channel
type Publisher interface {
	// Publish replaces the current notice of n.SessionID.
	Publish(ctx context.Context, n model.Notice) error
	// Latest returns the current notice of a session.
	Latest(ctx context.Context, sessionID string) (*model.Notice, error)
	// Clear removes the notice of a session.
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore keeps notices in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	notices map[string]model.Notice
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notices: make(map[string]model.Notice)}
}

// Publish implements Publisher
func (m *MemoryStore) Publish(ctx context.Context, n model.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices[n.SessionID] = n
	return nil
}

// Latest implements Publisher
func (m *MemoryStore) Latest(ctx context.Context, sessionID string) (*model.Notice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notices[sessionID]
	if !ok {
		return nil, ErrNoNotice
	}
	return &n, nil
}

// Clear implements Publisher
func (m *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notices, sessionID)
	return nil
}
