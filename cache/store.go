package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/status-im/asset-loader/asset"
	"github.com/status-im/asset-loader/metrics"
)

// keySeparator joins group and key into one go-cache key. It cannot
// occur in either part of a resource identifier.
const keySeparator = "\x1f"

// Store maps (group, key) to a ready asset item. Only addressable
// items (non-empty group and key) ever enter the store; an entry
// present here is always ready.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore creates a new cache store
func NewStore(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Store{
		cache: gocache.New(ttl, cfg.CleanupInterval),
		ttl:   ttl,
	}
}

func storeKey(group, key string) string {
	return group + keySeparator + key
}

// Put registers a ready item under its (group, key). Anonymous items
// are ignored; an existing entry for the same coordinates is
// overwritten unconditionally (last write wins).
func (s *Store) Put(it *asset.Item) bool {
	if it == nil || !it.Addressable() {
		return false
	}
	s.cache.Set(storeKey(it.Group(), it.Key()), it, s.ttl)
	metrics.SetCacheSize(s.cache.ItemCount())
	return true
}

// Get retrieves a cached item by its coordinates
func (s *Store) Get(group, key string) (*asset.Item, bool) {
	value, found := s.cache.Get(storeKey(group, key))
	if !found {
		return nil, false
	}
	it, ok := value.(*asset.Item)
	return it, ok
}

// Remove evicts the entry for (group, key), if any
func (s *Store) Remove(group, key string) {
	s.cache.Delete(storeKey(group, key))
	metrics.SetCacheSize(s.cache.ItemCount())
}

// RemoveGroup evicts every entry belonging to the group and returns
// the evicted items
func (s *Store) RemoveGroup(group string) []*asset.Item {
	prefix := group + keySeparator

	var evicted []*asset.Item
	for key, entry := range s.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if it, ok := entry.Object.(*asset.Item); ok {
			evicted = append(evicted, it)
		}
		s.cache.Delete(key)
	}
	metrics.SetCacheSize(s.cache.ItemCount())
	return evicted
}

// Clear evicts everything and returns the evicted items
func (s *Store) Clear() []*asset.Item {
	var evicted []*asset.Item
	for _, entry := range s.cache.Items() {
		if it, ok := entry.Object.(*asset.Item); ok {
			evicted = append(evicted, it)
		}
	}
	s.cache.Flush()
	metrics.SetCacheSize(0)
	return evicted
}

// Count returns the number of cached items
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Snapshot returns the current contents keyed by "group:key". It is
// the payload of the load-complete event.
func (s *Store) Snapshot() map[string]*asset.Item {
	items := s.cache.Items()
	snapshot := make(map[string]*asset.Item, len(items))
	for key, entry := range items {
		it, ok := entry.Object.(*asset.Item)
		if !ok {
			continue
		}
		snapshot[strings.Replace(key, keySeparator, ":", 1)] = it
	}
	return snapshot
}
