// Package storage keeps product images in an S3-compatible object store.
// Uploads are streamed straight from the request; nothing touches local disk.
package storage

import (
	"context"
	"io"
)

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is what the store reports back after an upload.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is the object store seen by the product service.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// URL returns the address clients fetch the object from: a public URL when the
	// bucket is publicly served, otherwise a time-limited presigned URL.
	URL(ctx context.Context, key string) (string, error)
}
