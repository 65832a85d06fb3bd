package portfolio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore is an alternative Store implementation backed by Redis
// hashes, satisfying the same idempotency and read-after-write contract
// as MemoryStore. Exists so a shared or replicated backing store can be
// swapped in without any call site change, callers only ever see the
// Store interface.
type RedisStore struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

// NewRedisStore wraps client, storing all positions under a single Redis
// hash key so a snapshot read is a single HGETALL.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key, ctx: context.Background()}
}

// UpdatePosition idempotently sets symbol's field in the backing hash.
func (s *RedisStore) UpdatePosition(symbol string, quantity, price float64) error {
	data, err := json.Marshal(Position{Symbol: symbol, Quantity: quantity, Price: price})
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	if err := s.client.HSet(s.ctx, s.key, symbol, data).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// GetStateJSON reads every field of the backing hash and re-assembles a
// single JSON object keyed by symbol, matching MemoryStore's shape.
func (s *RedisStore) GetStateJSON() ([]byte, error) {
	raw, err := s.client.HGetAll(s.ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	snapshot := make(map[string]Position, len(raw))
	for symbol, data := range raw {
		var pos Position
		if err := json.Unmarshal([]byte(data), &pos); err != nil {
			return nil, fmt.Errorf("unmarshal position %s: %w", symbol, err)
		}
		snapshot[symbol] = pos
	}
	return json.Marshal(snapshot)
}

// Count returns the number of distinct symbols currently tracked.
func (s *RedisStore) Count() (int, error) {
	n, err := s.client.HLen(s.ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen: %w", err)
	}
	return int(n), nil
}
