package accident

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/roadwatch/roadwatch/internal/metrics"
	"github.com/roadwatch/roadwatch/internal/model"
)

// ClientConfig holds the configuration for the accident API client.
type ClientConfig struct {
	// BaseURL is the root URL of the accident API, e.g. "http://127.0.0.1:8080".
	// The "/api/v1/accident" suffix is appended automatically if missing.
	BaseURL string

	// CacheTTL controls how long fetched records are kept in memory.
	// Set to 0 to disable caching.
	CacheTTL time.Duration

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client
}

func (c *ClientConfig) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, "/api/v1/accident") {
		c.BaseURL = c.BaseURL + "/api/v1/accident"
	}
}

// Client fetches accident records from the accident API.
type Client struct {
	cfg   ClientConfig
	cache *recordCache
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	cfg.defaults()
	return &Client{
		cfg:   cfg,
		cache: newRecordCache(),
	}
}

// envelope matches the accident API response body
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    *model.Accident `json:"data"`
}

// Get fetches one accident. A response without data yields (nil, nil).
func (c *Client) Get(ctx context.Context, id string) (*model.Accident, error) {
	if id == "" {
		return nil, fmt.Errorf("accident: id is required")
	}

	if c.cfg.CacheTTL > 0 {
		if a, ok := c.cache.get(id); ok {
			metrics.AccidentLookups.WithLabelValues("cache_hit").Inc()
			return a, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("accident: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		metrics.AccidentLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("accident: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("accident: failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		metrics.AccidentLookups.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		metrics.AccidentLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("accident: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.AccidentLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("accident: failed to parse response: %w", err)
	}
	if env.Data == nil {
		metrics.AccidentLookups.WithLabelValues("empty").Inc()
		return nil, nil
	}

	metrics.AccidentLookups.WithLabelValues("found").Inc()
	if c.cfg.CacheTTL > 0 {
		c.cache.set(id, env.Data, c.cfg.CacheTTL)
	}
	return env.Data, nil
}

// Invalidate drops a cached record so the next Get refetches it
func (c *Client) Invalidate(id string) {
	c.cache.delete(id)
}

// recordCache provides in-memory caching for fetched accidents.
type recordCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	accident  *model.Accident
	expiresAt time.Time
}

func newRecordCache() *recordCache {
	return &recordCache{
		entries: make(map[string]*cacheEntry),
	}
}

func (rc *recordCache) get(id string) (*model.Accident, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	entry, ok := rc.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.accident, true
}

func (rc *recordCache) set(id string, a *model.Accident, ttl time.Duration) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	now := time.Now()
	// Evict expired entries while we hold the lock
	for k, v := range rc.entries {
		if now.After(v.expiresAt) {
			delete(rc.entries, k)
		}
	}
	rc.entries[id] = &cacheEntry{
		accident:  a,
		expiresAt: now.Add(ttl),
	}
}

func (rc *recordCache) delete(id string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.entries, id)
}
