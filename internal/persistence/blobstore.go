// Package persistence saves and loads the ledger collections. Each
// collection is a JSON document stored under a fixed key in a BlobStore;
// the store itself knows nothing about the ledger.
package persistence

import (
	"context"
	"errors"
	"sort"
)

// ErrNotFound is returned by BlobStore.Get for a key that was never written.
var ErrNotFound = errors.New("persistence: key not found")

// BlobStore is a blocking key/value store of opaque documents.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMany writes every entry or none of them.
	PutMany(ctx context.Context, entries map[string][]byte) error
}

func sortedKeys(entries map[string][]byte) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
