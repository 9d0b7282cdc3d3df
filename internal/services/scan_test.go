package services

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dutchcoders/go-clamd"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClam struct {
	results []*clamd.ScanResult
	scanned []byte
}

func (f *fakeClam) ScanStream(r io.Reader, _ chan bool) (chan *clamd.ScanResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.scanned = data
	ch := make(chan *clamd.ScanResult, len(f.results))
	for _, res := range f.results {
		ch <- res
	}
	close(ch)
	return ch, nil
}

func TestUploadScanner(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	content := []byte("%PDF-1.7")
	ref, err := blobs.Store(ctx, bytes.NewReader(content), int64(len(content)), "application/pdf")
	require.NoError(t, err)

	event := FileEvent{FileID: uuid.New(), Locator: ref.Locator, MimeType: ref.MimeType, SizeBytes: ref.SizeBytes}

	t.Run("clean", func(t *testing.T) {
		clam := &fakeClam{results: []*clamd.ScanResult{{Status: clamd.RES_OK}}}
		pub := &recordingPublisher{}
		verdict, err := NewUploadScanner(blobs, clam, pub, zerolog.Nop()).Scan(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, ScanStatusClean, verdict.Status)
		assert.Equal(t, content, clam.scanned)
		assert.Equal(t, []string{SubjectFileScanned}, pub.subjects)
	})

	t.Run("infected", func(t *testing.T) {
		clam := &fakeClam{results: []*clamd.ScanResult{{Status: clamd.RES_FOUND, Description: "Eicar-Test-Signature"}}}
		verdict, err := NewUploadScanner(blobs, clam, nil, zerolog.Nop()).Scan(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, ScanStatusInfected, verdict.Status)
		assert.Equal(t, "Eicar-Test-Signature", verdict.Description)
	})

	t.Run("missing blob", func(t *testing.T) {
		missing := event
		missing.Locator = "mem://gone"
		_, err := NewUploadScanner(blobs, &fakeClam{}, nil, zerolog.Nop()).Scan(ctx, missing)
		assert.Error(t, err)
	})
}
