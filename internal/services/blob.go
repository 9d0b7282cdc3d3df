package services

import (
	"context"
	"io"
	"strings"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
)

// BlobStore owns uploaded bytes. The rest of the service only ever sees the
// BlobReference it hands back.
type BlobStore interface {
	// Store writes the whole object or nothing; backend failures wrap
	// models.ErrBlobUnavailable.
	Store(ctx context.Context, r io.Reader, size int64, mimeType string) (models.BlobReference, error)
	// Resolve returns a locator a viewer can fetch. It may be called any
	// number of times for the same reference.
	Resolve(ctx context.Context, ref models.BlobReference) (string, error)
	Open(ctx context.Context, ref models.BlobReference) (io.ReadCloser, error)
	CheckConnection(ctx context.Context) error
}

func isWebLocator(locator string) bool {
	return strings.HasPrefix(locator, "https://") || strings.HasPrefix(locator, "http://")
}

// GetContentType Helper function to determine the content type
func GetContentType(extension string) string {
	switch strings.ToLower(extension) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
