// Package kv provides the persistent key/value storage backing the local
// record cache.
package kv

import "context"

// Store is a string-keyed byte storage. Get returns (nil, nil) for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// BatchStore is implemented by stores able to write several keys
// atomically.
type BatchStore interface {
	Store
	SetMany(ctx context.Context, values map[string][]byte) error
}
