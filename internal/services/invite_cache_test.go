package services

import (
	"context"
	"testing"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisInviteCache(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := ConnectRedis(ctx, s.Addr())
	require.NoError(t, err)
	defer client.Close()

	cache := NewRedisInviteCache(client, "invite:", time.Minute)

	_, hit, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, hit)

	invite := models.Invite{ID: uuid.New(), Code: "abc123", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, cache.Put(ctx, invite))
	assert.True(t, s.Exists("invite:abc123"))

	got, hit, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, invite.ID, got.ID)
	assert.True(t, invite.CreatedAt.Equal(got.CreatedAt))

	s.FastForward(2 * time.Minute)
	_, hit, err = cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestConnectRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := ConnectRedis(ctx, "localhost:59999")
	assert.Error(t, err)
}
