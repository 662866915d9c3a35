package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the object operations every blob backend provides.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	// Ping reports whether the bucket is reachable.
	Ping(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}
