// Package memory implements process-local repositories.
package memory

import (
	"context"
	"sync"
	"time"

	"raffle-storefront/config"
	"raffle-storefront/internal/clock"
	"raffle-storefront/internal/entities"
)

// MediaCache keeps data URLs in a map keyed by prefixed id.
type MediaCache struct {
	mu     sync.Mutex
	prefix string
	ttl    time.Duration
	clock  clock.Clock
	items  map[string]entities.CachedMedia
}

// NewMediaCache creates an empty in-memory media cache.
func NewMediaCache(cfg config.MediaConfig, clk clock.Clock) *MediaCache {
	return &MediaCache{
		prefix: cfg.CachePrefix,
		ttl:    cfg.CacheTTL,
		clock:  clk,
		items:  make(map[string]entities.CachedMedia),
	}
}

// OnStart is a no-op.
func (m *MediaCache) OnStart(_ context.Context) error { return nil }

// OnStop drops every entry.
func (m *MediaCache) OnStop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]entities.CachedMedia)
	return nil
}

// Get returns a fresh entry and evicts a stale one.
func (m *MediaCache) Get(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.prefix + id
	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	if !item.Fresh(m.clock.Now(), m.ttl) {
		delete(m.items, key)
		return "", false, nil
	}
	return item.Data, true, nil
}

// Put stores a data URL stamped with the current time.
func (m *MediaCache) Put(_ context.Context, id, dataURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[m.prefix+id] = entities.NewCachedMedia(dataURL, m.clock.Now())
	return nil
}

// Len reports the number of stored entries, stale ones included.
func (m *MediaCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
