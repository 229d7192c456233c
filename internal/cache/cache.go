// Package cache stores parsed reign tables between runs, keyed by a digest
// of the table source text.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from the parts identifying a cached value,
// typically a table id and its source text.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "shiji:v1:" + hex.EncodeToString(h.Sum(nil))
}
