package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/qoach/quiz-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client *redis.Client
}

// NewRedis connects using the managed URL when one is configured,
// otherwise the local host/port pair. The connection is verified with a
// PING before the client is handed out.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisClient) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.client.Expire(ctx, key, ttl).Err()
}

// HSetBulk writes several hashes with a shared TTL in one pipeline
// round-trip.
func (r *RedisClient) HSetBulk(ctx context.Context, entries map[string]map[string]interface{}, ttl time.Duration) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := r.client.TxPipeline()
	for key, fields := range entries {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
