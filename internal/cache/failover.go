package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Failover prefers Redis and falls back to an in-process store per operation
// when Redis errors. The fallback is silent to callers (same Store contract)
// and observable only via logs.
type Failover struct {
	primary  *Redis
	fallback *Memory
}

// New builds the configured Store. With an empty redisURL, or when the Redis
// connection cannot be established, the returned store is in-process only.
// Cache backend failure is never fatal.
func New(ctx context.Context, redisURL string) Store {
	mem := NewMemory()
	if redisURL == "" {
		return mem
	}

	r, err := NewRedis(ctx, redisURL)
	if err != nil {
		log.Printf("cache: redis unavailable, using in-memory cache: %v", err)
		return mem
	}

	log.Printf("cache: redis connected")
	return &Failover{primary: r, fallback: mem}
}

func (f *Failover) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := f.primary.GetErr(ctx, key)
	if err == nil {
		return v, true
	}
	if errors.Is(err, redis.Nil) {
		// A clean miss in the primary, not a failure. The fallback only holds
		// entries written while the primary was down, so still consult it.
		return f.fallback.Get(ctx, key)
	}

	log.Printf("cache: redis get failed, falling back to memory: %v", err)
	return f.fallback.Get(ctx, key)
}

func (f *Failover) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := f.primary.SetErr(ctx, key, value, ttl); err != nil {
		log.Printf("cache: redis set failed, falling back to memory: %v", err)
		f.fallback.Set(ctx, key, value, ttl)
		return
	}
}

// SweepExpired delegates to the in-process fallback; Redis expires entries
// server-side.
func (f *Failover) SweepExpired() int {
	return f.fallback.SweepExpired()
}
