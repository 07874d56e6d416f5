package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"time"
)

// Package storage contains file/object storage abstractions for attachment files:
// a local uploads directory and S3-compatible object stores.

var (
	// ErrInvalidKey is returned for keys that are empty or escape the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrNotRegular is returned when a key names something other than a regular file.
	ErrNotRegular = errors.New("not a regular file")
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored file.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the attachment file store. Keys are slash-separated paths relative to the root.
type Storage interface {
	// Put stores the content read from r under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens the content under key as a streaming reader alongside its info.
	// It fails when the file is missing or cannot be read.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the content under key.
	Delete(ctx context.Context, key string) error
}

// Scratch is a local directory for short-lived files such as download archives.
type Scratch interface {
	// Create exclusively creates name for writing. It fails if name already exists.
	Create(name string) (*os.File, error)
	// Get opens name for reading.
	Get(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error)
	// Remove deletes name. Removing a missing file is not an error.
	Remove(name string) error
	// Path returns the absolute path of name.
	Path(name string) string
}
