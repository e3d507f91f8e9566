package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to Redis and pings it once.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("Connected to Redis", slog.String("addr", addr), slog.Int("db", db))
	return rdb, nil
}

// CloseRedisClient closes the Redis client.
func CloseRedisClient(rdb *redis.Client) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Warn("Failed to close Redis client", slog.String("error", err.Error()))
			return
		}
		slog.Info("Redis client closed")
	}
}
