// Package blob provides the media storage backend. Entities persist blob
// keys (relative paths); the store owns the bytes behind them.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist indicates the requested key has no stored blob.
var ErrNotExist = errors.New("blob: key does not exist")

// Store is the interface for media storage backends.
type Store interface {
	// Put writes the blob under key, overwriting any existing content.
	Put(ctx context.Context, key string, r io.Reader) error

	// Open returns a reader for the blob, or ErrNotExist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the blob. Removing an absent key is not an error:
	// deletion side effects must be idempotent across retries.
	Remove(ctx context.Context, key string) error

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
