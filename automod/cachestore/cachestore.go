package cachestore

import (
	"context"
)

// CacheStore is a namespaced string cache with store-enforced TTL. Values are
// small JSON blobs (avatar risk entries); last-write-wins is fine because a
// recomputed value for the same key is deterministic.
type CacheStore interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, name, key string) (string, bool, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}
