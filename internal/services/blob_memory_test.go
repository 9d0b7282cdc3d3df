package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	content := []byte("%PDF-1.4 fake")

	ref, err := blobs.Store(ctx, bytes.NewReader(content), int64(len(content)), "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.Locator, "mem://"))
	assert.Equal(t, int64(len(content)), ref.SizeBytes)

	want := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(content)
	for i := 0; i < 3; i++ {
		url, err := blobs.Resolve(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, want, url)
	}

	rc, err := blobs.Open(ctx, ref)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestMemoryBlobStoreFailuresReturnNoReference(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()

	ref, err := blobs.Store(ctx, failingReader{}, 10, "application/pdf")
	assert.ErrorIs(t, err, models.ErrBlobUnavailable)
	assert.Empty(t, ref.Locator)

	ref, err = blobs.Store(ctx, strings.NewReader("short"), 10, "application/pdf")
	assert.ErrorIs(t, err, models.ErrBlobUnavailable)
	assert.Empty(t, ref.Locator)
}

func TestMemoryBlobStoreResolve(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()

	url, err := blobs.Resolve(ctx, models.BlobReference{Locator: "https://cdn.example.com/deck.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/deck.pdf", url)

	_, err = blobs.Resolve(ctx, models.BlobReference{Locator: "mem://missing"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
