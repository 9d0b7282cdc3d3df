package services

import (
	"context"
	"errors"
	"testing"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/File-Sharing-BondBridg/Slide-Service/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedCodes hands out the given codes in order, then fails.
type fixedCodes struct {
	codes []string
	calls int
}

func (f *fixedCodes) Generate() (string, error) {
	if f.calls >= len(f.codes) {
		return "", errors.New("out of codes")
	}
	code := f.codes[f.calls]
	f.calls++
	return code, nil
}

func TestInviteStoreCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	st := storage.NewLocalStorage()
	store := NewInviteStore(st, &fixedCodes{codes: []string{"abc123"}}, zerolog.Nop())

	invite, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", invite.Code)
	assert.False(t, invite.CreatedAt.IsZero())

	got, err := store.Resolve(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, invite, got)

	valid, err := store.IsValid(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestInviteStoreRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	st := storage.NewLocalStorage()
	first := NewInviteStore(st, &fixedCodes{codes: []string{"taken"}}, zerolog.Nop())
	_, err := first.Create(ctx)
	require.NoError(t, err)

	gen := &fixedCodes{codes: []string{"taken", "taken", "fresh"}}
	store := NewInviteStore(st, gen, zerolog.Nop())
	invite, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", invite.Code)
	assert.Equal(t, 3, gen.calls)
}

func TestInviteStoreCreationExhausted(t *testing.T) {
	ctx := context.Background()
	st := storage.NewLocalStorage()
	_, err := NewInviteStore(st, &fixedCodes{codes: []string{"same"}}, zerolog.Nop()).Create(ctx)
	require.NoError(t, err)

	gen := &fixedCodes{codes: []string{"same", "same", "same", "same", "same", "same"}}
	_, err = NewInviteStore(st, gen, zerolog.Nop()).Create(ctx)
	assert.ErrorIs(t, err, models.ErrCreationExhausted)
	assert.Equal(t, DefaultCreateAttempts, gen.calls)
}

func TestInviteStoreCodecFailureIsNotRetried(t *testing.T) {
	gen := &fixedCodes{}
	_, err := NewInviteStore(storage.NewLocalStorage(), gen, zerolog.Nop()).Create(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrCreationExhausted)
	assert.Equal(t, 0, gen.calls)
}

func TestInviteStoreNeverCreatedCodesAreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewInviteStore(storage.NewLocalStorage(), NewCodec(nil), zerolog.Nop())

	created := make(map[string]bool)
	for i := 0; i < 20; i++ {
		invite, err := store.Create(ctx)
		require.NoError(t, err)
		created[invite.Code] = true
	}

	probe := NewCodec(nil)
	for i := 0; i < 200; i++ {
		code, err := probe.Generate()
		require.NoError(t, err)
		if created[code] {
			continue
		}
		_, err = store.Resolve(ctx, code)
		assert.ErrorIs(t, err, models.ErrNotFound)
	}

	for _, code := range []string{"", "bad code", "../etc"} {
		_, err := store.Resolve(ctx, code)
		assert.ErrorIs(t, err, models.ErrNotFound)
		valid, err := store.IsValid(ctx, code)
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

// memCache records traffic so tests can see cache hits and misses.
type memCache struct {
	entries map[string]models.Invite
	puts    int
}

func (m *memCache) Get(_ context.Context, code string) (models.Invite, bool, error) {
	inv, ok := m.entries[code]
	return inv, ok, nil
}

func (m *memCache) Put(_ context.Context, inv models.Invite) error {
	m.entries[inv.Code] = inv
	m.puts++
	return nil
}

func TestInviteStoreCachesOnlyPositiveResolutions(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{entries: map[string]models.Invite{}}
	store := NewInviteStore(storage.NewLocalStorage(), &fixedCodes{codes: []string{"cached"}}, zerolog.Nop(), WithInviteCache(cache))

	_, err := store.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 0, cache.puts)

	invite, err := store.Create(ctx)
	require.NoError(t, err)

	_, err = store.Resolve(ctx, invite.Code)
	require.NoError(t, err)
	_, err = store.Resolve(ctx, invite.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.puts)
}
