// Package rendercache memoizes rendered map documents by normalized district
// selection.
package rendercache

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/crime-map/internal/model"
)

// RenderFunc renders the document of a selection.
type RenderFunc func(model.Selection) (model.Document, error)

// Cache is a concurrent-safe map from selection key to rendered document.
// Entries never expire: the key space is bounded by the district count and
// the underlying data never changes after startup. Concurrent misses on the
// same key share one render.
type Cache struct {
	render RenderFunc

	mu      sync.RWMutex
	entries map[string]model.Document
	flight  singleflight.Group

	hits    atomic.Int64
	misses  atomic.Int64
	renders atomic.Int64
}

// Stats contains cache performance statistics.
type Stats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Renders int64   `json:"renders"`
	HitRate float64 `json:"hit_rate"`
}

// New creates an empty cache backed by render.
func New(render RenderFunc) *Cache {
	return &Cache{
		render:  render,
		entries: make(map[string]model.Document),
	}
}

// GetOrRender returns the cached document for sel, rendering and storing it
// on a miss. Permutations and duplicates of the same names share one entry.
// Render errors are returned and nothing is stored.
func (c *Cache) GetOrRender(sel model.Selection) (model.Document, error) {
	doc, _, err := c.Resolve(sel)
	return doc, err
}

// Resolve is GetOrRender that also reports whether the document came from
// the cache.
func (c *Cache) Resolve(sel model.Selection) (model.Document, bool, error) {
	key := sel.Key()

	if doc, ok := c.lookup(key); ok {
		c.hits.Add(1)
		zap.L().Debug("rendercache: hit", zap.Strings("selection", sel), zap.Int("bytes", doc.Len()))
		return doc, true, nil
	}
	c.misses.Add(1)
	zap.L().Debug("rendercache: miss", zap.Strings("selection", sel))

	v, err, _ := c.flight.Do(key, func() (any, error) {
		// Another flight may have stored the key between lookup and Do.
		if doc, ok := c.lookup(key); ok {
			return doc, nil
		}
		doc, err := c.render(sel.Unique())
		if err != nil {
			return nil, err
		}
		c.renders.Add(1)

		c.mu.Lock()
		c.entries[key] = doc
		c.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(model.Document), false, nil
}

// Get returns the cached document for sel without rendering.
func (c *Cache) Get(sel model.Selection) (model.Document, bool) {
	return c.lookup(sel.Key())
}

func (c *Cache) lookup(key string) (model.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.entries[key]
	return doc, ok
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache performance statistics.
func (c *Cache) Stats() Stats {
	entries := c.Len()
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries: entries,
		Hits:    hits,
		Misses:  misses,
		Renders: c.renders.Load(),
		HitRate: hitRate,
	}
}
