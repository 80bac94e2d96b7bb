/*
Package store defines the persistence ports for the HR engine.

PURPOSE:
  The vacation store persists its whole collection as one serialized
  document under a fixed key. Abstracting that as a key-value port keeps
  the domain logic identical whether it runs against SQLite, a flat file,
  or an in-memory stub in tests.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store (also holds work sessions)
  - store/memory: in-memory store for tests

SEE ALSO:
  - vacation/store.go: the main consumer of the KV port
*/
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been written.
// Callers fall back to their seed dataset in that case.
var ErrNotFound = errors.New("key not found")

// KV persists opaque serialized collections under fixed keys.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}
