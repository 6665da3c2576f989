package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored object.
type FileInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage abstracts the upload object store.
type Storage interface {
	// Write stores content from the reader under the given key.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Read retrieves content for the given key.
	Read(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the content with the given key.
	Delete(ctx context.Context, key string) error
	// Exists checks if content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)
	// List returns information about objects under the given prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
