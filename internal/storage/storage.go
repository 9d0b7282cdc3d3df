package storage

import (
	"context"
	"errors"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

// ErrCodeTaken is returned by CreateInvite when the code is already in use.
var ErrCodeTaken = errors.New("invite code already taken")

// Storage is the relational persistence contract behind the invite and file
// stores. Every mutation touches a single row.
type Storage interface {
	CreateInvite(ctx context.Context, invite models.Invite) error
	GetInviteByCode(ctx context.Context, code string) (models.Invite, error)

	ListFiles(ctx context.Context, inviteID uuid.UUID) ([]models.FileRecord, error)
	InsertFile(ctx context.Context, record models.FileRecord) error
	GetFile(ctx context.Context, fileID uuid.UUID) (models.FileRecord, error)
	RenameFile(ctx context.Context, fileID uuid.UUID, newName string) (models.FileRecord, error)
	DeleteFile(ctx context.Context, fileID uuid.UUID) error

	Ping(ctx context.Context) error
	Close() error
}
