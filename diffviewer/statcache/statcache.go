// Package statcache memoizes diff statistics for pairs of documents.
//
// Clients tend to ask for the statistics of the same documents over and over again, e.g. while
// switching between views. Computing them is quadratic in the number of lines, looking them up is
// not.
package statcache

import (
	"encoding/binary"
	"fmt"
	"io"

	"flo.znkr.io/diffviewer/diff"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/zeebo/blake3"
)

// Key identifies a pair of documents.
type Key [32]byte

// KeyOf returns the key of the pair original and changed. The length of the original document is
// part of the key, so that moving lines from one document to the other changes the key.
func KeyOf(original, changed string) Key {
	h := blake3.New()
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(original)))
	h.Write(n[:])
	io.WriteString(h, original)
	io.WriteString(h, changed)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Config sizes a [Cache], the fields map to the ristretto configuration of the same name.
type Config struct {
	NumCounters int64 // Number of keys to track frequency of, ~10x the number of expected entries
	MaxCost     int64 // Maximum total size of cached documents in bytes
	BufferItems int64 // Number of keys per Get buffer
}

// Cache is a size bounded cache of diff statistics. It's safe for concurrent use.
//
// A nil *Cache is valid and computes statistics without caching them.
type Cache struct {
	c *ristretto.Cache[string, diff.Stats]
}

// New creates an empty cache. It fails if cfg is not a valid ristretto configuration.
func New(cfg Config) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, diff.Stats]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cache: %v", err)
	}
	return &Cache{c: c}, nil
}

// Stats returns the diff statistics of original and changed, see [diff.Compute].
func (c *Cache) Stats(original, changed string) diff.Stats {
	if c == nil {
		return diff.Compute(original, changed)
	}
	k := KeyOf(original, changed)
	if s, ok := c.c.Get(string(k[:])); ok {
		return s
	}
	s := diff.Compute(original, changed)
	// The cost is the size of the input, this is what protects the server from recomputing
	// large documents.
	c.c.Set(string(k[:]), s, int64(len(original)+len(changed)))
	return s
}

// Wait blocks until all pending writes are applied.
func (c *Cache) Wait() {
	if c != nil {
		c.c.Wait()
	}
}

// Close stops all goroutines of the cache.
func (c *Cache) Close() {
	if c != nil {
		c.c.Close()
	}
}
