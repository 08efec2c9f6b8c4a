package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"greeting-sender/internal/domain"
)

// Redis key prefix for pending transactions.
const keyPrefix = "purchase:pending:"

// redisStore keeps entries in Redis with a TTL so they outlive the function
// instance that made the offer.
type redisStore struct {
	client RedisClient
	ttl    time.Duration
}

func newRedisStore(client RedisClient, ttl time.Duration) *redisStore {
	return &redisStore{client: client, ttl: ttl}
}

func (s *redisStore) key(token string) string {
	return keyPrefix + token
}

// Put implements Store.
func (s *redisStore) Put(ctx context.Context, tx domain.PendingTransaction) error {
	if tx.Token == "" {
		return errors.New("pending: token is required")
	}
	val, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("pending: marshal transaction: %w", err)
	}
	if err := s.client.Set(ctx, s.key(tx.Token), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("pending: put %q: %w", tx.Token, err)
	}
	return nil
}

// Take implements Store. GETDEL makes the read and removal atomic.
func (s *redisStore) Take(ctx context.Context, token string) (domain.PendingTransaction, error) {
	val, err := s.client.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.PendingTransaction{}, ErrNotFound
	}
	if err != nil {
		return domain.PendingTransaction{}, fmt.Errorf("pending: take %q: %w", token, err)
	}

	var tx domain.PendingTransaction
	if err := json.Unmarshal([]byte(val), &tx); err != nil {
		return domain.PendingTransaction{}, fmt.Errorf("pending: unmarshal transaction: %w", err)
	}
	return tx, nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
