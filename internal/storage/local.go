package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

type localFile struct {
	record models.FileRecord
	seq    uint64
}

// LocalStorage implements Storage in process memory. It backs tests and
// STORAGE_DRIVER=memory deployments.
type LocalStorage struct {
	mu      sync.RWMutex
	invites map[uuid.UUID]models.Invite
	codes   map[string]uuid.UUID
	files   map[uuid.UUID]localFile
	seq     uint64
}

func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		invites: make(map[uuid.UUID]models.Invite),
		codes:   make(map[string]uuid.UUID),
		files:   make(map[uuid.UUID]localFile),
	}
}

func (l *LocalStorage) CreateInvite(_ context.Context, invite models.Invite) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.codes[invite.Code]; exists {
		return ErrCodeTaken
	}
	if _, exists := l.invites[invite.ID]; exists {
		return fmt.Errorf("invite id %s already exists", invite.ID)
	}
	l.invites[invite.ID] = invite
	l.codes[invite.Code] = invite.ID
	return nil
}

func (l *LocalStorage) GetInviteByCode(_ context.Context, code string) (models.Invite, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, exists := l.codes[code]
	if !exists {
		return models.Invite{}, models.ErrNotFound
	}
	return l.invites[id], nil
}

func (l *LocalStorage) ListFiles(_ context.Context, inviteID uuid.UUID) ([]models.FileRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	matched := make([]localFile, 0)
	for _, f := range l.files {
		if f.record.InviteID == inviteID {
			matched = append(matched, f)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].record.UploadedAt.Equal(matched[j].record.UploadedAt) {
			return matched[i].record.UploadedAt.Before(matched[j].record.UploadedAt)
		}
		return matched[i].seq < matched[j].seq
	})

	files := make([]models.FileRecord, 0, len(matched))
	for _, f := range matched {
		files = append(files, f.record)
	}
	return files, nil
}

func (l *LocalStorage) InsertFile(_ context.Context, record models.FileRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.invites[record.InviteID]; !exists {
		return models.ErrInviteNotFound
	}
	if _, exists := l.files[record.ID]; exists {
		return fmt.Errorf("file id %s already exists", record.ID)
	}
	l.seq++
	l.files[record.ID] = localFile{record: record, seq: l.seq}
	return nil
}

func (l *LocalStorage) GetFile(_ context.Context, fileID uuid.UUID) (models.FileRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	f, exists := l.files[fileID]
	if !exists {
		return models.FileRecord{}, models.ErrNotFound
	}
	return f.record, nil
}

func (l *LocalStorage) RenameFile(_ context.Context, fileID uuid.UUID, newName string) (models.FileRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, exists := l.files[fileID]
	if !exists {
		return models.FileRecord{}, models.ErrNotFound
	}
	f.record.Name = newName
	l.files[fileID] = f
	return f.record, nil
}

func (l *LocalStorage) DeleteFile(_ context.Context, fileID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.files[fileID]; !exists {
		return models.ErrNotFound
	}
	delete(l.files, fileID)
	return nil
}

func (l *LocalStorage) Ping(context.Context) error { return nil }

func (l *LocalStorage) Close() error { return nil }

// GetStats returns storage statistics (useful for debugging)
func (l *LocalStorage) GetStats() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return map[string]interface{}{
		"total_invites": len(l.invites),
		"total_files":   len(l.files),
	}
}
