// Package pending tracks purchase directives that are waiting for their
// response event, keyed by correlation token.
package pending

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"greeting-sender/internal/domain"
)

var (
	ErrInvalidConfig    = errors.New("pending: invalid configuration")
	ErrInvalidStoreType = errors.New("pending: invalid store type")
	ErrNotFound         = errors.New("pending: transaction not found")
)

const defaultTTL = time.Hour

// Store is the pending-transaction table.
type Store interface {
	// Put records tx under tx.Token, replacing any previous entry.
	Put(ctx context.Context, tx domain.PendingTransaction) error
	// Take removes and returns the entry for token. Returns ErrNotFound when
	// the token is unknown or expired.
	Take(ctx context.Context, token string) (domain.PendingTransaction, error)
	Close() error
}

// StoreType selects a Store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient RedisClient
	ttl         time.Duration
	now         func() time.Time
}

// RedisClient is the subset of go-redis used by the Redis store.
// *redis.Client and *redis.ClusterClient satisfy it.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Close() error
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client RedisClient) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithTTL sets how long an unanswered offer is remembered.
func WithTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// WithClock overrides time.Now for the memory store.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		c.now = now
	}
}

// NewStore creates a Store of the given type.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.ttl <= 0 {
		cfg.ttl = defaultTTL
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(cfg.ttl, cfg.now), nil
	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisStore(cfg.redisClient, cfg.ttl), nil
	default:
		return nil, ErrInvalidStoreType
	}
}
