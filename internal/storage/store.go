// Package storage abstracts the blob store behind the BlobStore interface so
// the MinIO client can be replaced with the in-memory implementation in tests.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectExists is returned by PutObject when Overwrite is false and the
// path is already taken.
var ErrObjectExists = errors.New("object already exists")

// ErrObjectNotFound is returned by StatObject for absent objects.
var ErrObjectNotFound = errors.New("object not found")

// PutOptions describes upload options for object storage.
type PutOptions struct {
	ContentType string
	// Overwrite set to false makes the put fail with ErrObjectExists
	// instead of clobbering an existing object.
	Overwrite bool
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	ObjectName   string
	Size         int64
	LastModified time.Time
}

// BlobStore abstracts object storage operations.
type BlobStore interface {
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error
	RemoveObject(ctx context.Context, bucket, object string) error
	StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params map[string]string) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// Default is the main object store instance.
var Default BlobStore
