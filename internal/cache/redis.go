package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis server. TTL enforcement is server-side.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the given URL (redis://...) and verifies the
// connection with a ping. Any failure returns an error so the caller can fall
// back to the in-process store.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: redis get %q failed: %v", key, err)
		}
		return nil, false
	}
	return v, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("cache: redis set %q failed: %v", key, err)
	}
}

// GetErr is Get with the underlying error exposed, used by Failover to
// distinguish a miss from a backend failure.
func (r *Redis) GetErr(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

// SetErr is Set with the underlying error exposed.
func (r *Redis) SetErr(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
