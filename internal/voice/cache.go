package voice

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	cacheNumCounters = 1e6
	cacheBufferItems = 64
)

// Cache is the fast tier for synthesized audio. Entries expire after a
// fixed TTL; the cost of an entry is its byte length, so MaxBytes bounds
// total audio held in memory.
type Cache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

// NewCache creates an audio cache holding at most maxBytes of audio, each
// entry expiring after ttl.
func NewCache(maxBytes int64, ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     maxBytes,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

// Get returns the cached audio for a fingerprint, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, false
	}
	audio, ok := v.([]byte)
	return audio, ok
}

// Set stores audio under a fingerprint with the cache's TTL. Admission is
// best-effort; a rejected set is indistinguishable from an expired entry.
func (c *Cache) Set(key string, audio []byte) {
	c.c.SetWithTTL(key, audio, int64(len(audio)), c.ttl)
}

// Wait blocks until buffered sets have been applied. Test helper.
func (c *Cache) Wait() { c.c.Wait() }

// Close releases the cache's resources.
func (c *Cache) Close() { c.c.Close() }
