package sources

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/redis"
)

// ResponseCache keeps successful source pages for a short time
type ResponseCache interface {
	Get(ctx context.Context, key string) (*entities.SourcePage, bool)
	Set(ctx context.Context, key string, page *entities.SourcePage, ttl time.Duration)
}

const memoryCacheSweepSize = 1024

type memoryEntry struct {
	page      *entities.SourcePage
	expiresAt time.Time
}

// MemoryCache is a process local ResponseCache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*entities.SourcePage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.page, true
}

func (c *MemoryCache) Set(_ context.Context, key string, page *entities.SourcePage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= memoryCacheSweepSize {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = memoryEntry{page: page, expiresAt: now.Add(ttl)}
}

// RedisCache shares cached pages between replicas. Backend errors count as misses.
type RedisCache struct {
	store *redis.JSONStore
}

// NewRedisCache creates a cache on the global Redis client
func NewRedisCache(prefix string) *RedisCache {
	return &RedisCache{store: redis.NewJSONStore(prefix)}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*entities.SourcePage, bool) {
	var page entities.SourcePage
	hit, err := c.store.Fetch(ctx, key, &page)
	if err != nil {
		logger.Warn(ctx, "Source cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}
	return &page, true
}

func (c *RedisCache) Set(ctx context.Context, key string, page *entities.SourcePage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.store.Put(ctx, key, page, ttl); err != nil {
		logger.Warn(ctx, "Source cache write failed", zap.String("key", key), zap.Error(err))
	}
}
