package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (r *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return nil
}

func newTestStores(t *testing.T, codes ...string) (*InviteStore, *FileStore, *recordingPublisher) {
	t.Helper()
	st := storage.NewLocalStorage()
	pub := &recordingPublisher{}
	var gen CodeGenerator = NewCodec(nil)
	if len(codes) > 0 {
		gen = &fixedCodes{codes: codes}
	}
	return NewInviteStore(st, gen, zerolog.Nop()), NewFileStore(st, pub, zerolog.Nop()), pub
}

var ref1 = models.BlobReference{Locator: "s3://slides/ref1.pdf", SizeBytes: 2048, MimeType: "application/pdf"}

func TestFileStoreScenario(t *testing.T) {
	ctx := context.Background()
	invites, files, pub := newTestStores(t, "abc123")

	invite, err := invites.Create(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc123", invite.Code)

	rec, err := files.Insert(ctx, invite.ID, "deck.pdf", ref1)
	require.NoError(t, err)

	listed, err := files.List(ctx, invite.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "deck.pdf", listed[0].Name)
	assert.Equal(t, ref1, listed[0].ContentRef)

	_, err = files.Rename(ctx, rec.ID, "final.pdf")
	require.NoError(t, err)
	listed, err = files.List(ctx, invite.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "final.pdf", listed[0].Name)

	require.NoError(t, files.Remove(ctx, rec.ID))
	listed, err = files.List(ctx, invite.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, files.Remove(ctx, rec.ID), models.ErrNotFound)
	assert.Equal(t, []string{SubjectFileUploaded, SubjectFileRenamed, SubjectFileDeleted}, pub.subjects)
}

func TestFileStoreInsertGrowsListByOne(t *testing.T) {
	ctx := context.Background()
	invites, files, _ := newTestStores(t)
	invite, err := invites.Create(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		before, err := files.List(ctx, invite.ID)
		require.NoError(t, err)
		_, err = files.Insert(ctx, invite.ID, "deck.pdf", ref1)
		require.NoError(t, err)
		after, err := files.List(ctx, invite.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
	}
}

func TestFileStoreInsertUnknownInvite(t *testing.T) {
	_, files, pub := newTestStores(t)
	_, err := files.Insert(context.Background(), uuid.New(), "deck.pdf", ref1)
	assert.ErrorIs(t, err, models.ErrInviteNotFound)
	assert.Empty(t, pub.subjects)
}

func TestFileStoreValidation(t *testing.T) {
	ctx := context.Background()
	invites, files, _ := newTestStores(t)
	invite, err := invites.Create(ctx)
	require.NoError(t, err)

	_, err = files.Insert(ctx, invite.ID, "   ", ref1)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = files.Insert(ctx, invite.ID, "deck.pdf", models.BlobReference{})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = files.Insert(ctx, invite.ID, "deck.pdf", models.BlobReference{Locator: "x", SizeBytes: -1})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = files.Insert(ctx, invite.ID, strings.Repeat("n", maxNameLength+1), ref1)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	rec, err := files.Insert(ctx, invite.ID, "  padded.pdf ", ref1)
	require.NoError(t, err)
	assert.Equal(t, "padded.pdf", rec.Name)

	_, err = files.Rename(ctx, rec.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = files.Rename(ctx, uuid.New(), "x.pdf")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFileStoreListOrderStable(t *testing.T) {
	ctx := context.Background()
	invites, files, _ := newTestStores(t)
	invite, err := invites.Create(ctx)
	require.NoError(t, err)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	files.now = func() time.Time { return fixed }

	names := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}
	for _, n := range names {
		_, err := files.Insert(ctx, invite.ID, n, ref1)
		require.NoError(t, err)
	}
	listed, err := files.List(ctx, invite.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(listed))
	for _, f := range listed {
		got = append(got, f.Name)
	}
	assert.Equal(t, names, got)
}

func TestFileStoreConcurrentInsertsHaveDistinctIDs(t *testing.T) {
	ctx := context.Background()
	invites, files, _ := newTestStores(t)
	invite, err := invites.Create(ctx)
	require.NoError(t, err)

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := files.Insert(ctx, invite.ID, "deck.pdf", ref1)
			if assert.NoError(t, err) {
				ids <- rec.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uuid.UUID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	listed, err := files.List(ctx, invite.ID)
	require.NoError(t, err)
	assert.Len(t, listed, n)
}
