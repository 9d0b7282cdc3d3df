// Package projection keeps a client-side mirror of one invite's files. Every
// mutation lands in the mirror first and is then applied durably; a failed
// durable call leaves the mirror as is and marks it dirty until Refresh.
package projection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/google/uuid"
)

// Durable applies changes to the authoritative store. *client.Client
// satisfies it.
type Durable interface {
	ListFiles(ctx context.Context, code string) ([]models.FileView, error)
	InsertFile(ctx context.Context, code, name string, ref models.BlobReference) (models.FileView, error)
	RenameFile(ctx context.Context, code string, fileID uuid.UUID, newName string) (models.FileView, error)
	DeleteFile(ctx context.Context, code string, fileID uuid.UUID) error
}

// errUploadFailed marks a rename or delete aimed at an upload whose insert
// failed.
var errUploadFailed = errors.New("upload failed")

type Projection struct {
	code    string
	durable Durable
	now     func() time.Time

	mu      sync.Mutex
	files   []models.FileView
	dirty   bool
	uploads map[uuid.UUID]*upload
}

// upload tracks an insert issued under a provisional id. done closes once the
// store has answered; stored and err are set before that.
type upload struct {
	done    chan struct{}
	stored  uuid.UUID
	err     error
	deleted bool
}

func New(inviteCode string, durable Durable) *Projection {
	return &Projection{
		code:    inviteCode,
		durable: durable,
		now:     time.Now,
		uploads: make(map[uuid.UUID]*upload),
	}
}

func (p *Projection) InviteCode() string { return p.code }

// Files returns a copy in display order.
func (p *Projection) Files() []models.FileView {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.FileView, len(p.files))
	copy(out, p.files)
	return out
}

func (p *Projection) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

func (p *Projection) Find(fileID uuid.UUID) (models.FileView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(fileID); i >= 0 {
		return p.files[i], true
	}
	return models.FileView{}, false
}

func (p *Projection) indexOf(fileID uuid.UUID) int {
	for i, f := range p.files {
		if f.ID == fileID {
			return i
		}
	}
	return -1
}

// localID returns the id the mirror holds for fileID: the stored id once a
// provisional upload has landed. Callers hold mu.
func (p *Projection) localID(fileID uuid.UUID) uuid.UUID {
	if u, ok := p.uploads[fileID]; ok && u.stored != uuid.Nil {
		return u.stored
	}
	return fileID
}

func (p *Projection) markDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// ApplyUpload appends a provisional entry and records it durably. On success
// the entry is swapped for the stored record, which carries the server id and
// timestamp. Names are not validated here; the store rejects bad ones.
func (p *Projection) ApplyUpload(ctx context.Context, name string, ref models.BlobReference) (models.FileView, error) {
	provisional := models.FileView{
		ID:         uuid.New(),
		Name:       name,
		URL:        ref.Locator,
		SizeBytes:  ref.SizeBytes,
		MimeType:   ref.MimeType,
		UploadedAt: p.now().UTC(),
	}
	u := &upload{done: make(chan struct{})}
	p.mu.Lock()
	p.files = append(p.files, provisional)
	p.uploads[provisional.ID] = u
	p.mu.Unlock()

	stored, err := p.durable.InsertFile(ctx, p.code, name, ref)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer close(u.done)
	if err != nil {
		u.err = err
		p.dirty = true
		return provisional, fmt.Errorf("upload %q: %w", name, err)
	}

	u.stored = stored.ID
	switch i := p.indexOf(provisional.ID); {
	case i >= 0:
		// A rename issued meanwhile is still pending against the stored id;
		// keep its name until it lands.
		if local := p.files[i].Name; local != provisional.Name {
			stored.Name = local
		}
		p.files[i] = stored
	case !u.deleted:
		// The entry vanished without a delete, e.g. a Refresh listed the
		// invite before the insert committed.
		p.dirty = true
	}
	return stored, nil
}

// storedID maps a provisional upload id to the id the store issued, waiting
// for the insert if it is still in flight. Other ids come back unchanged.
func (p *Projection) storedID(ctx context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	p.mu.Lock()
	u, ok := p.uploads[fileID]
	p.mu.Unlock()
	if !ok {
		return fileID, nil
	}

	select {
	case <-u.done:
	case <-ctx.Done():
		p.markDirty()
		return uuid.Nil, ctx.Err()
	}
	if u.err != nil {
		return uuid.Nil, fmt.Errorf("%w: upload never stored: %v", errUploadFailed, u.err)
	}
	return u.stored, nil
}

// ApplyRename renames in place. An id the mirror does not hold is still sent
// to the store, which decides. Renaming an upload that is still in flight
// waits for the stored id.
func (p *Projection) ApplyRename(ctx context.Context, fileID uuid.UUID, newName string) error {
	p.mu.Lock()
	if i := p.indexOf(p.localID(fileID)); i >= 0 {
		p.files[i].Name = newName
	}
	p.mu.Unlock()

	id, err := p.storedID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("rename %s: %w", fileID, err)
	}
	if _, err := p.durable.RenameFile(ctx, p.code, id, newName); err != nil {
		p.markDirty()
		return fmt.Errorf("rename %s: %w", id, err)
	}
	return nil
}

// ApplyDelete removes the entry. A record the store no longer has counts as
// deleted. Deleting an upload that is still in flight waits for the stored id
// and deletes that.
func (p *Projection) ApplyDelete(ctx context.Context, fileID uuid.UUID) error {
	p.mu.Lock()
	if i := p.indexOf(p.localID(fileID)); i >= 0 {
		p.files = append(p.files[:i], p.files[i+1:]...)
	}
	if u, ok := p.uploads[fileID]; ok {
		u.deleted = true
	}
	p.mu.Unlock()

	id, err := p.storedID(ctx, fileID)
	if errors.Is(err, errUploadFailed) {
		// Nothing reached the store; the failed upload already marked dirty.
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", fileID, err)
	}
	if err := p.durable.DeleteFile(ctx, p.code, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		p.markDirty()
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

// Refresh replaces the mirror with the store's listing and clears dirty. On
// failure the mirror and the flag are left untouched.
func (p *Projection) Refresh(ctx context.Context) error {
	files, err := p.durable.ListFiles(ctx, p.code)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if files == nil {
		files = []models.FileView{}
	}

	p.mu.Lock()
	p.files = files
	p.dirty = false
	p.mu.Unlock()
	return nil
}
