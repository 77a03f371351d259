package views

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds the view list of each project between mutations.
type Cache interface {
	// Get returns the cached list of a project, or nil on a miss or expiry.
	Get(projectID string) []*View

	// Set stores the list of a project.
	Set(projectID string, list []*View)

	// Invalidate drops the list of a project.
	Invalidate(projectID string)
}

// CacheConfig holds configuration for cache behavior.
type CacheConfig struct {
	// TTL is the lifetime of a cached list. Zero keeps lists until invalidated.
	TTL time.Duration
}

// DefaultCacheConfig returns the configuration used by the server.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{TTL: time.Minute}
}

// InMemoryCache is a Cache safe for concurrent use. Expired lists are evicted
// in the background.
type InMemoryCache struct {
	lists *cache.Cache
}

// NewInMemoryCache creates an empty cache.
func NewInMemoryCache(config CacheConfig) *InMemoryCache {
	ttl, cleanup := config.TTL, config.TTL*2
	if ttl <= 0 {
		ttl, cleanup = cache.NoExpiration, 0
	}
	return &InMemoryCache{lists: cache.New(ttl, cleanup)}
}

func (c *InMemoryCache) Get(projectID string) []*View {
	cached, ok := c.lists.Get(projectID)
	if !ok {
		return nil
	}
	return copyViews(cached.([]*View))
}

func (c *InMemoryCache) Set(projectID string, list []*View) {
	c.lists.SetDefault(projectID, copyViews(list))
}

func (c *InMemoryCache) Invalidate(projectID string) {
	c.lists.Delete(projectID)
}

// Len returns the number of projects with a cached list, expired or not.
func (c *InMemoryCache) Len() int {
	return c.lists.ItemCount()
}

// copyViews copies the list and its views so callers cannot alter cached data.
func copyViews(list []*View) []*View {
	out := make([]*View, len(list))
	for i, v := range list {
		view := *v
		out[i] = &view
	}
	return out
}
