package cache

import (
	"context"
	"time"
)

// Cache is the read-through cache used for expensive aggregate queries.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	// Type selects the backend: "local" or "redis".
	Type string `env:"CACHE_TYPE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// New builds a cache for the configured backend, defaulting to local.
func New(cfg Config) Cache {
	if cfg.DefaultExpiration == 0 {
		cfg.DefaultExpiration = 5 * time.Minute
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	if cfg.Type == "redis" {
		return NewRedisCache(cfg)
	}
	return NewLocalCache(cfg)
}
