// Package kv defines the key-value storage contract shared by the
// eventually-consistent redis store and the hot-key coordinator, plus the
// prefix router that decides which of the two serves a given key.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair for batched writes.
type Entry struct {
	Key   string        `json:"key"`
	Value []byte        `json:"value"`
	TTL   time.Duration `json:"ttl,omitempty"`
}

// Store is the key-value surface the core operates against. TTL of zero
// means no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)

	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)
	PutMulti(ctx context.Context, entries []Entry) error
	DeleteMulti(ctx context.Context, keys []string) error
}
