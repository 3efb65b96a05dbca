// Package cache stores embedding vectors so re-ingest runs and repeated
// queries do not re-embed unchanged text.
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

// Key generates a cache key from embedded text. Callers prefix the text with
// the embedder name, so switching models invalidates naturally.
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "claimlens:v1:" + hex.EncodeToString(hash[:])
}
