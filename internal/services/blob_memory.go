package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

const memoryScheme = "mem://"

type memoryBlob struct {
	data     []byte
	mimeType string
}

// MemoryBlobStore keeps bytes in process and resolves them to inline data URIs.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]memoryBlob)}
}

func (m *MemoryBlobStore) Store(_ context.Context, r io.Reader, size int64, mimeType string) (models.BlobReference, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.BlobReference{}, fmt.Errorf("%w: read upload: %v", models.ErrBlobUnavailable, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return models.BlobReference{}, fmt.Errorf("%w: short upload: got %d of %d bytes", models.ErrBlobUnavailable, len(data), size)
	}

	key := uuid.NewString()
	m.mu.Lock()
	m.blobs[key] = memoryBlob{data: data, mimeType: mimeType}
	m.mu.Unlock()

	return models.BlobReference{
		Locator:   memoryScheme + key,
		SizeBytes: int64(len(data)),
		MimeType:  mimeType,
	}, nil
}

func (m *MemoryBlobStore) lookup(ref models.BlobReference) (memoryBlob, error) {
	key, ok := strings.CutPrefix(ref.Locator, memoryScheme)
	if !ok {
		return memoryBlob{}, fmt.Errorf("%w: locator %q is not held in memory", models.ErrInvalidArgument, ref.Locator)
	}
	m.mu.RLock()
	blob, exists := m.blobs[key]
	m.mu.RUnlock()
	if !exists {
		return memoryBlob{}, fmt.Errorf("blob %q: %w", ref.Locator, models.ErrNotFound)
	}
	return blob, nil
}

func (m *MemoryBlobStore) Resolve(_ context.Context, ref models.BlobReference) (string, error) {
	if isWebLocator(ref.Locator) {
		return ref.Locator, nil
	}
	blob, err := m.lookup(ref)
	if err != nil {
		return "", err
	}
	return "data:" + blob.mimeType + ";base64," + base64.StdEncoding.EncodeToString(blob.data), nil
}

func (m *MemoryBlobStore) Open(_ context.Context, ref models.BlobReference) (io.ReadCloser, error) {
	blob, err := m.lookup(ref)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(blob.data)), nil
}

func (m *MemoryBlobStore) CheckConnection(context.Context) error { return nil }
