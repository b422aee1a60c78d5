package engine

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of transcripts kept by [Cached].
const DefaultCacheSize = 128

// Cached memoises transcripts by probe source. The engine is deterministic
// for identical input, so a repeated probe never needs a second process.
// Failed runs are not cached.
type Cached struct {
	next  Runner
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an LRU of the given size (DefaultCacheSize if <= 0).
func NewCached(next Runner, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: c}, nil
}

// Run returns the cached transcript for source, running next on a miss.
func (c *Cached) Run(ctx context.Context, source string) (string, error) {
	if out, ok := c.cache.Get(source); ok {
		return out, nil
	}
	out, err := c.next.Run(ctx, source)
	if err != nil {
		return "", err
	}
	c.cache.Add(source, out)
	return out, nil
}

// Len reports how many transcripts are cached.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached transcript, e.g. after the package set changes
// on disk.
func (c *Cached) Purge() {
	c.cache.Purge()
}
