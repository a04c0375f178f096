package interfaces

import (
	"context"
	"io"
)

// EvidenceStorage stores evidence files uploaded for action plans
type EvidenceStorage interface {
	// Put writes the content under key and returns the number of bytes written
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)

	// Open returns a reader for the content stored under key. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error
}
