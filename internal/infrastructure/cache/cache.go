package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/kitchentory/backend/internal/domain"
)

// Cache types accepted by New
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Store is a cache repository that owns background resources
type Store interface {
	domain.CacheRepository
	io.Closer
}

// New builds the cache backend named by cacheType
func New(ctx context.Context, cacheType, redisURL string) (Store, error) {
	switch cacheType {
	case TypeMemory, "":
		return NewMemoryCache(0), nil
	case TypeRedis:
		return NewRedisCache(ctx, redisURL)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cacheType)
	}
}
