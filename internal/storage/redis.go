package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nathoo/rulekit/engine/save"
	"github.com/nathoo/rulekit/types"
)

// RedisStore keeps scripts as JSON documents under script:<uuid> keys.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to addr. A zero ttl keeps scripts forever.
func NewRedisStore(addr string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisStore{client: rdb, ttl: ttl, logger: logger}
}

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

// WaitForConnection retries Ping until Redis answers or attempts run out.
func (r *RedisStore) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		err := r.Ping(ctx)
		if err == nil {
			r.logger.Info("Redis connection established")
			return nil
		}
		r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

func (r *RedisStore) Create(ctx context.Context, g *types.GameScript) (uuid.UUID, error) {
	id := uuid.New()
	data, err := save.EncodeScript(g)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal script: %w", err)
	}
	if err := r.client.Set(ctx, scriptKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save script", "uuid", id, "error", err)
		return uuid.Nil, fmt.Errorf("failed to save script: %w", err)
	}
	return id, nil
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (*types.GameScript, error) {
	data, err := r.client.Get(ctx, scriptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to load script", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return save.DecodeScript(data)
}

func (r *RedisStore) Update(ctx context.Context, id uuid.UUID, g *types.GameScript) error {
	data, err := save.EncodeScript(g)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}
	ok, err := r.client.SetXX(ctx, scriptKey(id), data, r.ttl).Result()
	if err != nil {
		r.logger.Error("Failed to update script", "uuid", id, "error", err)
		return fmt.Errorf("failed to update script: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.client.Del(ctx, scriptKey(id)).Result()
	if err != nil {
		r.logger.Error("Failed to delete script", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete script: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
