package notice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roadwatch/roadwatch/internal/database"
	"github.com/roadwatch/roadwatch/internal/model"
)

const (
	noticeKeyPrefix = "roadwatch:notice:"
	// Channel receives every published notice for live front ends
	Channel = "roadwatch:notices"
)

// redisClient is the subset of *database.Redis the store needs
type redisClient interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	Publish(ctx context.Context, channel string, message interface{}) error
}

var _ redisClient = (*database.Redis)(nil)

// RedisStore keeps the latest notice per session in Redis and fans every
// notice out on Channel.
type RedisStore struct {
	rdb redisClient
	ttl time.Duration
}

// NewRedisStore creates a RedisStore whose notices expire after ttl
func NewRedisStore(rdb *database.Redis, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Publish implements Publisher
func (s *RedisStore) Publish(ctx context.Context, n model.Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notice: %w", err)
	}
	if err := s.rdb.SetWithTTL(ctx, noticeKeyPrefix+n.SessionID, data, s.ttl); err != nil {
		return fmt.Errorf("failed to store notice: %w", err)
	}
	if err := s.rdb.Publish(ctx, Channel, data); err != nil {
		return fmt.Errorf("failed to publish notice: %w", err)
	}
	return nil
}

// Latest implements Publisher
func (s *RedisStore) Latest(ctx context.Context, sessionID string) (*model.Notice, error) {
	raw, err := s.rdb.GetString(ctx, noticeKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoNotice
		}
		return nil, fmt.Errorf("failed to get notice: %w", err)
	}

	var n model.Notice
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, fmt.Errorf("failed to decode notice: %w", err)
	}
	return &n, nil
}

// Clear implements Publisher
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Delete(ctx, noticeKeyPrefix+sessionID)
}
