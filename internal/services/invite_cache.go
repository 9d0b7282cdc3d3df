package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/File-Sharing-BondBridg/Slide-Service/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisInviteCache is a cache-aside store for resolved invites.
type RedisInviteCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisInviteCache(client *redis.Client, prefix string, ttl time.Duration) *RedisInviteCache {
	return &RedisInviteCache{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedis opens a client and fails fast when the server is unreachable.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisInviteCache) Get(ctx context.Context, code string) (models.Invite, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Invite{}, false, nil
		}
		return models.Invite{}, false, fmt.Errorf("cache get error: %w", err)
	}

	var invite models.Invite
	if err := json.Unmarshal(data, &invite); err != nil {
		return models.Invite{}, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return invite, true, nil
}

func (c *RedisInviteCache) Put(ctx context.Context, invite models.Invite) error {
	data, err := json.Marshal(invite)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+invite.Code, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}
