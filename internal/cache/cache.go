// Package cache provides a small byte-oriented key/value cache used to keep
// hot read paths (top products) off the database.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys.
// Get reports ok=false on a miss; a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop is a Cache that never stores anything. It is used when no Redis
// address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
