package pubsite

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pubsite/content"
	"github.com/eringen/pubsite/dataset"
)

// PostCache holds the Dataset built from a Source for ttl. The preview server
// reads through it; the content watcher calls Invalidate on change.
type PostCache struct {
	mu      sync.RWMutex
	ds      *dataset.Dataset
	fetched time.Time
	ttl     time.Duration
	source  content.Source
}

// NewPostCache creates a PostCache backed by the given Source.
func NewPostCache(src content.Source, ttl time.Duration) *PostCache {
	return &PostCache{source: src, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.ds != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.ds = nil
	c.mu.Unlock()
}

// Dataset returns the cached dataset, loading it from the source if the cache
// is empty or expired. It tries a read lock first; only takes a write lock if
// a reload is needed. A failed load leaves the previous dataset untouched.
func (c *PostCache) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	c.mu.RLock()
	if c.valid() {
		ds := c.ds
		c.mu.RUnlock()
		return ds, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.ds, nil
	}
	posts, err := c.source.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	c.ds = dataset.New(posts)
	c.fetched = time.Now()
	return c.ds, nil
}
