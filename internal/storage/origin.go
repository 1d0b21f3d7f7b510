package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by an Origin when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo contains basic information about an object in the origin.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Origin is a read-only, S3-compatible source of raw files that are not yet on local disk.
type Origin interface {
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
