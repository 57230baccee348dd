// Package blob provides disk-backed storage for uploaded stage images.
// Files are written under a single uploads directory with generated names;
// the returned reference is the generated file name, never a client path.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"potrack/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxUploadSize is the ceiling for a single uploaded image.
const MaxUploadSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ErrUploadTooLarge is returned when the uploaded content exceeds MaxUploadSize.
var ErrUploadTooLarge = fmt.Errorf("upload exceeds maximum size of %d bytes", int64(MaxUploadSize))

// DiskStore implements BlobStore on the local filesystem.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk store rooted at dir, creating the directory if
// it does not exist.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Store writes the content to a new file named by a random UUID with the
// original extension preserved. Only image extensions are accepted; content
// larger than MaxUploadSize is rejected and the partial file removed.
func (s *DiskStore) Store(_ context.Context, filename string, content io.Reader, size int64) (string, error) {
	if size > MaxUploadSize {
		return "", ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"filename",
			fmt.Errorf("extension %q is not an allowed image type", ext),
		)
	}

	reference := uuid.NewString() + ext
	path := filepath.Join(s.dir, reference)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	written, err := io.Copy(file, io.LimitReader(content, MaxUploadSize+1))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if written > MaxUploadSize {
		_ = os.Remove(path)
		return "", ErrUploadTooLarge
	}

	return reference, nil
}

// Open retrieves previously stored content by its reference. The reference
// must be a bare file name; anything resolving outside the store directory is
// rejected.
func (s *DiskStore) Open(_ context.Context, reference string) (io.ReadCloser, error) {
	if reference == "" || reference != filepath.Base(reference) {
		return nil, errs.NewValueIsInvalidError("reference")
	}

	file, err := os.Open(filepath.Join(s.dir, reference))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewObjectNotFoundError("blob", reference)
		}
		return nil, err
	}

	return file, nil
}
