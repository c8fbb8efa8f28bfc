package editor

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/isofar/wayfinder/pkg/observability"
)

// redisKey is the fixed key the snapshot lives under.
const redisKey = "wayfinder:" + SnapshotName

// RedisStore persists the snapshot in Redis. Useful when several
// machines share one map, for example a group editing session.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		observability.Storage().OnLoad(ctx, "redis", 0, nil)
		return nil, nil
	}
	if err != nil {
		observability.Storage().OnLoad(ctx, "redis", 0, err)
		return nil, fmt.Errorf("read snapshot from redis: %w", err)
	}
	observability.Storage().OnLoad(ctx, "redis", len(data), nil)
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		observability.Storage().OnSave(ctx, "redis", len(data), err)
		return fmt.Errorf("write snapshot to redis: %w", err)
	}
	observability.Storage().OnSave(ctx, "redis", len(data), nil)
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return fmt.Errorf("delete snapshot from redis: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements SnapshotStore.
var _ SnapshotStore = (*RedisStore)(nil)
