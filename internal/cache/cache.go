package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fediwatch/fediwatch-backend/internal/config"
	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

// Cache is a byte-value cache with per-entry TTLs. A miss is not an error:
// Get reports it through the second return value.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// New builds the cache backend selected by the configuration: the
// in-process memory cache by default, redis when configured.
func New(cfg *config.Config, log *logger.Logger) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendLocMem, "":
		return NewLocMem(), nil
	case config.CacheBackendRedis:
		return NewRedis(cfg, log)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
