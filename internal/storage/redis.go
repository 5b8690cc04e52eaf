package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland/pkg/entitlement"
	"github.com/jwebster45206/wasteland/pkg/save"
)

const (
	keyPrefix         = "wasteland:"
	entitlementPrefix = keyPrefix + "entitlements:"
)

// RedisStore keeps save blobs as string keys and entitlements as sets.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStore implements the save and entitlement store interfaces
var (
	_ save.Store        = (*RedisStore)(nil)
	_ entitlement.Store = (*RedisStore)(nil)
)

// NewRedisStore parses redisURL and creates a store. A zero ttl keeps save
// keys forever.
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opt), ttl, logger), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger, ttl: ttl}
}

// Client exposes the underlying client so other services can share it.
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Save blob operations

func (r *RedisStore) Save(ctx context.Context, key string, blob []byte) error {
	if err := r.client.Set(ctx, keyPrefix+key, blob, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save blob", "key", key, "error", err)
		return fmt.Errorf("failed to save blob: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to load blob", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load blob: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		r.logger.Error("Failed to delete blob", "key", key, "error", err)
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// Entitlement operations

func (r *RedisStore) Owned(ctx context.Context, playerID string) ([]string, error) {
	members, err := r.client.SMembers(ctx, entitlementPrefix+playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return members, nil
}

func (r *RedisStore) Grant(ctx context.Context, playerID, product string) (bool, error) {
	added, err := r.client.SAdd(ctx, entitlementPrefix+playerID, product).Result()
	if err != nil {
		return false, fmt.Errorf("failed to grant entitlement: %w", err)
	}
	return added == 1, nil
}
