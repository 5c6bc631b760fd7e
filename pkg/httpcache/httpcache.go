// Package httpcache fetches web pages with optional disk caching and per-host rate limiting.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/localfs"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

const cacheName = "sleuth"

// Stats counts fetch outcomes since start or the last ResetStats.
type Stats struct {
	Hits   int64 // served from cache
	Misses int64 // went to the network
	Errors int64 // network fetches that failed
	Bytes  int64 // bytes read from the network
}

var counters struct {
	hits, misses, errors, bytes atomic.Int64
}

// CacheStats returns a snapshot of the fetch counters.
func CacheStats() Stats {
	return Stats{
		Hits:   counters.hits.Load(),
		Misses: counters.misses.Load(),
		Errors: counters.errors.Load(),
		Bytes:  counters.bytes.Load(),
	}
}

// ResetStats zeroes the fetch counters.
func ResetStats() {
	counters.hits.Store(0)
	counters.misses.Store(0)
	counters.errors.Store(0)
	counters.bytes.Store(0)
}

// record notes the outcome of one network fetch.
func record(n int, err error) {
	counters.misses.Add(1)
	if err != nil {
		counters.errors.Add(1)
		return
	}
	counters.bytes.Add(int64(n))
}

// Cacher is the page cache a Fetcher consults. fetch runs only on a miss
// and its errors are returned without being stored.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache is an sfcache-backed page cache.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// New opens a page cache under the user cache directory.
func New(ttl time.Duration) (*Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return NewWithPath(ttl, filepath.Join(dir, cacheName))
}

// NewNull returns a cache without persistence. Pages live in memory for the
// life of the process only.
func NewNull() *Cache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte]())
	if err != nil {
		panic("null page cache: " + err.Error())
	}
	return &Cache{TieredCache: tc}
}

// NewWithPath opens a page cache in dir, creating it if needed.
func NewWithPath(ttl time.Duration, dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	store, err := localfs.New[string, []byte](cacheName, dir)
	if err != nil {
		return nil, fmt.Errorf("open page store: %w", err)
	}
	tc, err := sfcache.NewTiered[string, []byte](store, sfcache.TTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &Cache{TieredCache: tc, ttl: ttl}, nil
}

// TTL is how long pages stay cached.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Key returns the cache key for a page. Pages fetched with session cookies
// are kept apart from anonymous ones since sites serve them differently.
func Key(rawURL string, authenticated bool) string {
	if authenticated {
		rawURL += "|auth"
	}
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.StatusCode, e.URL)
}
