package tenant

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shopgrid/storefront-server/internal/models"
)

// Cache caches resolved tenant configs per identifier. Concurrent fetches
// for the same identifier are collapsed through singleflight.
type Cache struct {
	client *Client
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	sfg     singleflight.Group
}

type cacheEntry struct {
	config    *models.TenantConfig
	fetchedAt time.Time
}

// NewCache creates a config cache in front of a lookup client
func NewCache(client *Client, ttl time.Duration) *Cache {
	return &Cache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached config for an identifier, fetching on miss or
// expiry. A failed fetch returns nil and is not negatively cached, so the
// next request retries the lookup.
func (c *Cache) Get(ctx context.Context, id Identifier) *models.TenantConfig {
	key := id.Key()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		return entry.config
	}

	v, _, _ := c.sfg.Do(key, func() (interface{}, error) {
		cfg := c.client.FetchConfig(ctx, id)
		if cfg != nil {
			c.mu.Lock()
			c.entries[key] = cacheEntry{config: cfg, fetchedAt: time.Now()}
			c.mu.Unlock()
		}
		return cfg, nil
	})

	cfg, _ := v.(*models.TenantConfig)
	return cfg
}

// Invalidate drops a cached identifier
func (c *Cache) Invalidate(id Identifier) {
	c.mu.Lock()
	delete(c.entries, id.Key())
	c.mu.Unlock()
}

// Session tracks the most recent resolution for one consumer. Resolution is
// last-resolved-wins: when hostnames change rapidly, a slow earlier lookup
// must not clobber the result of a faster later one.
//
// The HTTP server resolves statelessly per request through Resolver and
// Cache. Session is the entry point for embedding clients that follow a
// single browsing context across hostname changes.
type Session struct {
	resolver *Resolver
	cache    *Cache

	mu      sync.Mutex
	gen     uint64
	current *models.TenantConfig
}

// NewSession creates a resolution session over a resolver and cache
func NewSession(resolver *Resolver, cache *Cache) *Session {
	return &Session{resolver: resolver, cache: cache}
}

// Resolve derives an identifier from the hostname, fetches its config and
// installs it as the session's current tenant unless a newer resolution
// has started in the meantime. Returns the fetched config (which may be
// stale for the session) or nil when no tenant could be resolved.
func (s *Session) Resolve(ctx context.Context, hostname string) *models.TenantConfig {
	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.mu.Unlock()

	id, ok := s.resolver.Resolve(hostname)
	if !ok {
		s.install(myGen, nil)
		return nil
	}

	cfg := s.cache.Get(ctx, id)
	s.install(myGen, cfg)
	return cfg
}

// Current returns the most recently installed config, nil when unresolved
func (s *Session) Current() *models.TenantConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// install applies a resolution result only if it is still the newest
func (s *Session) install(gen uint64, cfg *models.TenantConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.current = cfg
	}
}
