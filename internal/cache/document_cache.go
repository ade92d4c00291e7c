package cache

import (
	"context"
	"sync"
	"time"

	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const cacheName = "documents"

// entry is what the cache holds for a document key; absent documents are cached too
type entry struct {
	value  jsonvalue.Value
	exists bool
}

// DocumentCache is a read-through cache in front of a DocumentStore. Every write
// or delete through it invalidates the affected document and key listing, so a
// read after a write in this process always sees the write.
type DocumentCache struct {
	next  repository.DocumentStore
	cache *gocache.Cache

	mu  sync.Mutex
	gen map[string]uint64 // per-collection write generation
}

var _ repository.DocumentStore = (*DocumentCache)(nil)

// NewDocumentCache wraps next with a cache whose entries live for ttl
func NewDocumentCache(next repository.DocumentStore, ttl time.Duration) *DocumentCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	logger.Info("Document cache enabled",
		zap.String("store", next.Name()),
		zap.Duration("ttl", ttl))

	return &DocumentCache{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
		gen:   make(map[string]uint64),
	}
}

func docKey(collection, key string) string { return "doc:" + collection + "/" + key }
func keysKey(collection string) string     { return "keys:" + collection }

func (c *DocumentCache) generation(collection string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[collection]
}

// invalidate drops cached state for collection/key and bumps the generation so
// in-flight reads that started before the write do not repopulate stale data.
func (c *DocumentCache) invalidate(collection, key string) {
	c.mu.Lock()
	c.gen[collection]++
	c.mu.Unlock()

	c.cache.Delete(docKey(collection, key))
	c.cache.Delete(keysKey(collection))
}

// setIfCurrent stores v unless collection was written since gen was observed
func (c *DocumentCache) setIfCurrent(collection string, gen uint64, k string, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[collection] == gen {
		c.cache.SetDefault(k, v)
	}
}

// Name reports the wrapped store's name
func (c *DocumentCache) Name() string { return c.next.Name() }

// Ping checks the wrapped store
func (c *DocumentCache) Ping(ctx context.Context) error { return c.next.Ping(ctx) }

// Read serves from cache, falling back to the wrapped store
func (c *DocumentCache) Read(ctx context.Context, collection, key string) (jsonvalue.Value, bool, error) {
	k := docKey(collection, key)
	if cached, found := c.cache.Get(k); found {
		if e, ok := cached.(entry); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			return e.value, e.exists, nil
		}
		c.cache.Delete(k)
	}
	metrics.CacheMisses.WithLabelValues(cacheName).Inc()

	gen := c.generation(collection)
	v, ok, err := c.next.Read(ctx, collection, key)
	if err != nil {
		return jsonvalue.Value{}, false, err
	}
	c.setIfCurrent(collection, gen, k, entry{value: v, exists: ok})
	return v, ok, nil
}

// Write writes through and invalidates
func (c *DocumentCache) Write(ctx context.Context, collection, key string, value jsonvalue.Value) error {
	defer c.invalidate(collection, key)
	return c.next.Write(ctx, collection, key, value)
}

// Delete deletes through and invalidates
func (c *DocumentCache) Delete(ctx context.Context, collection, key string) error {
	defer c.invalidate(collection, key)
	return c.next.Delete(ctx, collection, key)
}

// ListKeys serves the key listing from cache, falling back to the wrapped store
func (c *DocumentCache) ListKeys(ctx context.Context, collection string) ([]string, error) {
	k := keysKey(collection)
	if cached, found := c.cache.Get(k); found {
		if keys, ok := cached.([]string); ok {
			metrics.CacheHits.WithLabelValues(cacheName).Inc()
			return append([]string(nil), keys...), nil
		}
		c.cache.Delete(k)
	}
	metrics.CacheMisses.WithLabelValues(cacheName).Inc()

	gen := c.generation(collection)
	keys, err := c.next.ListKeys(ctx, collection)
	if err != nil {
		return nil, err
	}
	c.setIfCurrent(collection, gen, k, append([]string(nil), keys...))
	return keys, nil
}

// Warm preloads every document of a collection. Errors are logged, not returned,
// since a cold cache only costs latency.
func (c *DocumentCache) Warm(ctx context.Context, collection string) {
	keys, err := c.ListKeys(ctx, collection)
	if err != nil {
		logger.Warn("Failed to warm document cache", zap.String("collection", collection), zap.Error(err))
		return
	}
	for _, key := range keys {
		if _, _, err := c.Read(ctx, collection, key); err != nil {
			logger.Warn("Failed to warm document cache", zap.String("collection", collection), zap.String("key", key), zap.Error(err))
			return
		}
	}
	logger.Info("Document cache warmed", zap.String("collection", collection), zap.Int("documents", len(keys)))
}

// Flush empties the cache
func (c *DocumentCache) Flush() {
	c.mu.Lock()
	for collection := range c.gen {
		c.gen[collection]++
	}
	c.mu.Unlock()
	c.cache.Flush()
}
