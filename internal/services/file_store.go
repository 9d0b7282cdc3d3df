package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxNameLength = 255

// FileStore is CRUD over file records scoped to an invite. Each call is a
// single-record transaction; concurrent writes to one record are applied in
// receipt order.
type FileStore struct {
	storage   storage.Storage
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewFileStore(st storage.Storage, publisher Publisher, logger zerolog.Logger) *FileStore {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &FileStore{
		storage:   st,
		publisher: publisher,
		logger:    logger.With().Str("component", "files").Logger(),
		now:       time.Now,
	}
}

// NormalizeName trims the name and rejects empty or oversized values.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name must not be empty", models.ErrInvalidArgument)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: name longer than %d bytes", models.ErrInvalidArgument, maxNameLength)
	}
	return name, nil
}

func validateRef(ref models.BlobReference) error {
	if strings.TrimSpace(ref.Locator) == "" {
		return fmt.Errorf("%w: content locator must not be empty", models.ErrInvalidArgument)
	}
	if ref.SizeBytes < 0 {
		return fmt.Errorf("%w: size must not be negative", models.ErrInvalidArgument)
	}
	return nil
}

// List returns the invite's records oldest first. An invite without files
// yields an empty slice.
func (s *FileStore) List(ctx context.Context, inviteID uuid.UUID) ([]models.FileRecord, error) {
	files, err := s.storage.ListFiles(ctx, inviteID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []models.FileRecord{}
	}
	return files, nil
}

func (s *FileStore) Get(ctx context.Context, fileID uuid.UUID) (models.FileRecord, error) {
	rec, err := s.storage.GetFile(ctx, fileID)
	if err != nil {
		return models.FileRecord{}, wrapStoreErr("get file", err)
	}
	return rec, nil
}

// Insert creates a record with a fresh id. ErrInviteNotFound when inviteID
// does not exist.
func (s *FileStore) Insert(ctx context.Context, inviteID uuid.UUID, name string, ref models.BlobReference) (models.FileRecord, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return models.FileRecord{}, err
	}
	if err := validateRef(ref); err != nil {
		return models.FileRecord{}, err
	}

	rec := models.FileRecord{
		ID:         uuid.New(),
		InviteID:   inviteID,
		Name:       name,
		ContentRef: ref,
		UploadedAt: s.now().UTC(),
	}
	if err := s.storage.InsertFile(ctx, rec); err != nil {
		return models.FileRecord{}, wrapStoreErr("insert file", err)
	}

	s.logger.Info().Str("file_id", rec.ID.String()).Str("invite_id", inviteID.String()).Msg("file inserted")
	s.publish(ctx, SubjectFileUploaded, newFileEvent("uploaded", rec, rec.UploadedAt))
	return rec, nil
}

func (s *FileStore) Rename(ctx context.Context, fileID uuid.UUID, newName string) (models.FileRecord, error) {
	newName, err := NormalizeName(newName)
	if err != nil {
		return models.FileRecord{}, err
	}

	rec, err := s.storage.RenameFile(ctx, fileID, newName)
	if err != nil {
		return models.FileRecord{}, wrapStoreErr("rename file", err)
	}

	s.logger.Info().Str("file_id", fileID.String()).Msg("file renamed")
	s.publish(ctx, SubjectFileRenamed, newFileEvent("renamed", rec, s.now()))
	return rec, nil
}

// Remove deletes the record. Removing an unknown id is ErrNotFound; callers
// reconciling state treat that as already satisfied.
func (s *FileStore) Remove(ctx context.Context, fileID uuid.UUID) error {
	if err := s.storage.DeleteFile(ctx, fileID); err != nil {
		return wrapStoreErr("remove file", err)
	}

	s.logger.Info().Str("file_id", fileID.String()).Msg("file removed")
	s.publish(ctx, SubjectFileDeleted, FileEvent{Action: "deleted", FileID: fileID, At: s.now().UTC()})
	return nil
}

func (s *FileStore) publish(ctx context.Context, subject string, event FileEvent) {
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish file event")
	}
}

// wrapStoreErr keeps the typed kinds visible to errors.Is and adds context to
// everything else.
func wrapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrInviteNotFound),
		errors.Is(err, models.ErrInvalidArgument):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
