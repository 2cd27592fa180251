package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopgrid/storefront-server/internal/models"
)

// RedisPort persists cart state as a single JSON blob per cart key.
type RedisPort struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisPort creates a Redis-backed persistence port
func NewRedisPort(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisPort {
	return &RedisPort{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Load reads and decodes the cart blob. A missing key returns ErrNotFound;
// an unreadable blob returns the decode error so the caller can fail soft.
func (p *RedisPort) Load(ctx context.Context, key string) (*models.CartState, error) {
	data, err := p.client.Get(ctx, p.storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal cart blob: %w", err)
	}

	return &state, nil
}

// Save writes the full cart state, refreshing the inactivity TTL
func (p *RedisPort) Save(ctx context.Context, key string, state *models.CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal cart blob: %w", err)
	}

	if err := p.client.Set(ctx, p.storageKey(key), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Clear removes the persisted blob
func (p *RedisPort) Clear(ctx context.Context, key string) error {
	if err := p.client.Del(ctx, p.storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

func (p *RedisPort) storageKey(key string) string {
	return p.keyPrefix + ":" + key
}
