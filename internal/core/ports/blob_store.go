package ports

import (
	"context"
	"io"
)

// BlobStore is the outbound boundary to binary object storage for uploaded
// stage images. The core never inspects file bytes; it persists only the
// returned reference string inside requirement and packaging & dispatch
// records.
type BlobStore interface {
	// Store saves the content under a generated name derived from filename
	// and returns the reference used to retrieve it later.
	Store(ctx context.Context, filename string, content io.Reader, size int64) (string, error)

	// Open retrieves previously stored content by its reference.
	Open(ctx context.Context, reference string) (io.ReadCloser, error)
}
