// Package cache provides short-TTL memoization for derived analytics. The
// cache is read-through and load-shedding only: concurrent readers during a
// miss may issue redundant upstream calls, which is acceptable since entries
// exist to bound external-call volume, not for correctness.
package cache

import (
	"fmt"
	"time"

	"sectorbrief/internal/model"
)

// DefaultTTL bounds how long derived analytics are served without a fresh
// upstream call.
const DefaultTTL = 5 * time.Minute

// Cache is a byte-value cache with per-entry TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key for a derived-analytics kind and sector.
func Key(kind string, sector model.Sector) string {
	return fmt.Sprintf("analytics:%s:%s", kind, sector)
}
