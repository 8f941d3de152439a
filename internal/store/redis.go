package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the networked store backend. TTL handling is delegated to the
// server's native key expiry, so session state survives process restarts
// and is shared across connector instances.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given Redis server and verifies the connection
// with a single ping. There is no retry; an unreachable server fails startup.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &Redis{client: client}, nil
}

// Get returns the value for key, mapping a missing key to ok == false.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key. A positive ttl uses the server's SET-with-expiry;
// zero ttl persists the key until overwritten.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
