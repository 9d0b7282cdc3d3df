package models

import (
	"time"

	"github.com/google/uuid"
)

// BlobReference points at file bytes held by the blob store. The service never
// reads through it; it only stores and forwards the locator.
type BlobReference struct {
	Locator   string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

type FileRecord struct {
	ID         uuid.UUID     `json:"id"`
	InviteID   uuid.UUID     `json:"inviteId"`
	Name       string        `json:"name"`
	ContentRef BlobReference `json:"contentRef"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

// FileView is the listing shape served to clients: {id, name, url, uploadedAt}.
type FileView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"sizeBytes"`
	MimeType   string    `json:"mimeType"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (f FileRecord) View() FileView {
	return FileView{
		ID:         f.ID,
		Name:       f.Name,
		URL:        f.ContentRef.Locator,
		SizeBytes:  f.ContentRef.SizeBytes,
		MimeType:   f.ContentRef.MimeType,
		UploadedAt: f.UploadedAt,
	}
}

// Record converts a listing entry back into a record owned by inviteID.
func (v FileView) Record(inviteID uuid.UUID) FileRecord {
	return FileRecord{
		ID:       v.ID,
		InviteID: inviteID,
		Name:     v.Name,
		ContentRef: BlobReference{
			Locator:   v.URL,
			SizeBytes: v.SizeBytes,
			MimeType:  v.MimeType,
		},
		UploadedAt: v.UploadedAt,
	}
}
