// Package cache provides the key-value cache consulted before a search is
// recomputed. Entries are derived, re-computable data; last writer wins.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the key with the value for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Noop satisfies Cache when no backend is configured. Every lookup misses,
// so searches are always recomputed.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
