// Package blob stores opaque byte objects under slash-separated keys,
// either on the local filesystem or in Amazon S3.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("blob not found")

// Storage provides key-value style object storage.
type Storage interface {
	// Read returns the object stored under key.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write replaces the object stored under key.
	Write(ctx context.Context, key string, data []byte) error
	// List returns the keys directly below prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Exists reports whether key is stored.
	Exists(ctx context.Context, key string) (bool, error)
}
