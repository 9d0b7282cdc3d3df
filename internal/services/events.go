package services

import (
	"context"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

const (
	SubjectFileUploaded = "files.uploaded"
	SubjectFileRenamed  = "files.renamed"
	SubjectFileDeleted  = "files.deleted"
	SubjectFileScanned  = "files.scanned"
)

// Publisher delivers domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// NopPublisher drops every event; used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

type FileEvent struct {
	Action    string    `json:"action"`
	FileID    uuid.UUID `json:"file_id"`
	InviteID  uuid.UUID `json:"invite_id"`
	Name      string    `json:"name,omitempty"`
	Locator   string    `json:"locator,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	At        time.Time `json:"at"`
}

func newFileEvent(action string, rec models.FileRecord, at time.Time) FileEvent {
	return FileEvent{
		Action:    action,
		FileID:    rec.ID,
		InviteID:  rec.InviteID,
		Name:      rec.Name,
		Locator:   rec.ContentRef.Locator,
		MimeType:  rec.ContentRef.MimeType,
		SizeBytes: rec.ContentRef.SizeBytes,
		At:        at.UTC(),
	}
}

type ScanEvent struct {
	FileID      uuid.UUID `json:"file_id"`
	Locator     string    `json:"locator"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	ScannedAt   time.Time `json:"scanned_at"`
}
