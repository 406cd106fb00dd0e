package cache

import (
	"context"

	"food-order-service/internal/infra/catalog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUMenuCache is the in-process menu cache used when redis is not
// configured.
type LRUMenuCache struct {
	cache *lru.Cache[string, catalog.MenuItem]
}

func NewLRUMenuCache(size int) *LRUMenuCache {
	if size <= 0 {
		size = 1024
	}
	c, err := lru.New[string, catalog.MenuItem](size)
	if err != nil {
		c, _ = lru.New[string, catalog.MenuItem](1024)
	}
	return &LRUMenuCache{cache: c}
}

// GetMenuItem returns a copy so callers cannot mutate the cached entry.
func (c *LRUMenuCache) GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, bool) {
	m, ok := c.cache.Get(id)
	if !ok {
		return nil, false
	}
	return &m, true
}

func (c *LRUMenuCache) SetMenuItem(ctx context.Context, item *catalog.MenuItem) {
	c.cache.Add(item.ID, *item)
}

func (c *LRUMenuCache) Len() int { return c.cache.Len() }

var _ MenuCache = (*LRUMenuCache)(nil)
