package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/pkg/redis"
)

// BlacklistCache remembers revoked tokens in Redis. It only ever answers "revoked";
// a miss means "ask the database".
type BlacklistCache struct {
	client redis.Client
}

func NewBlacklistCache(client redis.Client) *BlacklistCache {
	return &BlacklistCache{client: client}
}

func (c *BlacklistCache) Enabled() bool {
	return c.client != nil && c.client.IsEnabled()
}

func (c *BlacklistCache) MarkRevoked(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, blacklistKey(token), "1", ttl)
}

func (c *BlacklistCache) IsRevoked(ctx context.Context, token string) (bool, error) {
	return c.client.Exists(ctx, blacklistKey(token))
}

// Keys hold a digest so raw bearer tokens never sit in Redis.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return constants.CacheKeyBlacklist + hex.EncodeToString(sum[:])
}
