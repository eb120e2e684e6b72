package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend using Redis string keys under a prefix.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend creates a new Redis storage backend
func NewRedisBackend(addr, password string, db int, prefix string) (*RedisBackend, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if prefix == "" {
		prefix = "promptstudio:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisBackend{client: client, prefix: prefix}, nil
}

// Initialize tests Redis connection
func (r *RedisBackend) Initialize(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes Redis connection
func (r *RedisBackend) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Health checks redis availability
func (r *RedisBackend) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) configKey(key string) string {
	return r.prefix + "config:" + key
}

func (r *RedisBackend) GetConfig(ctx context.Context, key string) (interface{}, error) {
	data, err := r.client.Get(ctx, r.configKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &ErrNotFound{Key: key}
		}
		return nil, err
	}
	return decodeValue(data), nil
}

func (r *RedisBackend) SetConfig(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode config %s: %w", key, err)
	}
	return r.client.Set(ctx, r.configKey(key), payload, 0).Err()
}

func (r *RedisBackend) DeleteConfig(ctx context.Context, key string) error {
	res, err := r.client.Del(ctx, r.configKey(key)).Result()
	if err != nil {
		return err
	}
	if res == 0 {
		return &ErrNotFound{Key: key}
	}
	return nil
}

func (r *RedisBackend) ListConfigs(ctx context.Context) (map[string]interface{}, error) {
	base := r.prefix + "config:"
	configs := make(map[string]interface{})
	iter := r.client.Scan(ctx, 0, base+"*", 0).Iterator()
	for iter.Next(ctx) {
		full := iter.Val()
		data, err := r.client.Get(ctx, full).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		configs[full[len(base):]] = decodeValue(data)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return configs, nil
}

// decodeValue returns the JSON-decoded value, or the raw string for
// entries written by other tools.
func decodeValue(data []byte) interface{} {
	var out interface{}
	if err := json.Unmarshal(data, &out); err == nil {
		return out
	}
	return string(data)
}
