// Package objectstore abstracts the blob backend behind put/get/presign.
// The backend is a remote, possibly-failing dependency: failures surface
// as ErrStorageUnavailable and are not retried here.
package objectstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrStorageUnavailable = errors.New("object storage unavailable")
	ErrPresignUnsupported = errors.New("presigned URLs not supported by this backend")
)

type ObjectStore interface {
	// Put writes the full content at key, overwriting any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the full content at key, or ErrObjectNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Presign returns a time-limited direct-access URL for key.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}
