package persistence

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when no document exists for the key.
var ErrKeyNotFound = errors.New("kv: key not found")

// KV is the document store contract. The backend offers whole-document
// get/put only: no transactions, no partial updates, no versioned writes.
// Concurrent load-mutate-save cycles against the same key are last-writer-wins.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
