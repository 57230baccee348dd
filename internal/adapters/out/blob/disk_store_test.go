package blob_test

import (
	"io"
	"strings"
	"testing"

	"potrack/internal/adapters/out/blob"
	"potrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *blob.DiskStore {
	t.Helper()
	store, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestDiskStore_StoreAndOpen(t *testing.T) {
	ctx := t.Context()
	store := newStore(t)

	reference, err := store.Store(ctx, "photo.JPG", strings.NewReader("image bytes"), 11)
	require.NoError(t, err)
	assert.NotEqual(t, "photo.JPG", reference, "reference must be a generated name")
	assert.True(t, strings.HasSuffix(reference, ".jpg"), "extension survives lowercased")

	file, err := store.Open(ctx, reference)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))
}

func TestDiskStore_Store_RejectsNonImageExtension(t *testing.T) {
	store := newStore(t)

	_, err := store.Store(t.Context(), "malware.exe", strings.NewReader("x"), 1)

	var invalid *errs.ValueIsInvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestDiskStore_Store_RejectsOversizedContent(t *testing.T) {
	store := newStore(t)

	_, err := store.Store(t.Context(), "big.png", strings.NewReader("x"), blob.MaxUploadSize+1)

	require.ErrorIs(t, err, blob.ErrUploadTooLarge)
}

func TestDiskStore_Open_RejectsPathTraversal(t *testing.T) {
	store := newStore(t)

	for _, reference := range []string{"../secret.png", "a/b.png", ""} {
		_, err := store.Open(t.Context(), reference)
		require.Error(t, err, reference)
	}
}

func TestDiskStore_Open_UnknownReference(t *testing.T) {
	store := newStore(t)

	_, err := store.Open(t.Context(), "missing.png")

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
}
