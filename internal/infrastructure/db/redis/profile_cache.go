package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

const defaultProfileTTL = 5 * time.Minute

// ProfileCache stores GetUser views as JSON.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache wraps client; ttl <= 0 selects defaultProfileTTL.
func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

var _ ports.ProfileCache = (*ProfileCache)(nil)

// Get returns the cached view or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.UserView, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var view domain.UserView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
	return &view, nil
}

func (c *ProfileCache) Set(ctx context.Context, id string, view domain.UserView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, key(id), raw, c.ttl).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, key(id)).Err()
}

func key(id string) string {
	return "profile:" + id
}
