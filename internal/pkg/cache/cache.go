package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velolab/velolab/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache connects the shared Redis client (DB 0). Sessions and OAuth
// state use their own databases on the same server.
func SetupCache() {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379")),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: could not connect to Redis cache: %v", err)
	}
}

// GetClient returns the shared Redis client, connecting lazily if needed.
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value under key with the given expiration.
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get returns the string stored under key.
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// GetInt returns the integer stored under key.
func GetInt(key string) (int, error) {
	return GetClient().Get(ctx, key).Int()
}

// Increment atomically increments the counter under key and refreshes its
// expiration. Used for throttling failed login attempts.
func Increment(key string, expiration time.Duration) (int64, error) {
	n, err := GetClient().Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	GetClient().Expire(ctx, key, expiration)
	return n, nil
}

// Delete removes key from the cache.
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}
