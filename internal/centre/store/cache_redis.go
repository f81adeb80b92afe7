package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"candilib/internal/centre/models"
	id "candilib/pkg/domain"
)

const (
	centreKeyPrefix     = "centre:id:"
	departmentKeyPrefix = "centre:dept:"
	defaultCacheTTL     = 10 * time.Minute
)

// Store is the persistence contract the cache decorates.
type Store interface {
	Create(ctx context.Context, c *models.Centre) error
	FindByID(ctx context.Context, centreID id.CentreID) (*models.Centre, error)
	FindByIDForUpdate(ctx context.Context, centreID id.CentreID) (*models.Centre, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error)
	Update(ctx context.Context, c *models.Centre) error
}

// Cached is a read-through Redis cache in front of a Store. Reads fall back
// to the store when Redis fails; writes go to the store first and then drop
// the affected keys.
type Cached struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*Cached)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cached) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cached) { c.logger = logger }
}

func NewCached(inner Store, client *redis.Client, opts ...CacheOption) *Cached {
	c := &Cached{inner: inner, client: client, ttl: defaultCacheTTL, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) FindByID(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	key := centreKeyPrefix + centreID.String()
	var centre models.Centre
	if c.get(ctx, key, &centre) {
		return &centre, nil
	}
	found, err := c.inner.FindByID(ctx, centreID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, found)
	return found, nil
}

// FindByIDForUpdate always reads the store: a locked read must see the row
// it locks.
func (c *Cached) FindByIDForUpdate(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	return c.inner.FindByIDForUpdate(ctx, centreID)
}

func (c *Cached) ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error) {
	key := departmentKeyPrefix + department
	var centres []*models.Centre
	if c.get(ctx, key, &centres) {
		return centres, nil
	}
	centres, err := c.inner.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, centres)
	return centres, nil
}

func (c *Cached) Create(ctx context.Context, centre *models.Centre) error {
	if err := c.inner.Create(ctx, centre); err != nil {
		return err
	}
	c.invalidate(ctx, departmentKeyPrefix+centre.Department)
	return nil
}

// Update invalidates both the old and the new department listing.
func (c *Cached) Update(ctx context.Context, centre *models.Centre) error {
	keys := []string{centreKeyPrefix + centre.ID.String(), departmentKeyPrefix + centre.Department}
	if old, err := c.inner.FindByID(ctx, centre.ID); err == nil && old.Department != centre.Department {
		keys = append(keys, departmentKeyPrefix+old.Department)
	}
	if err := c.inner.Update(ctx, centre); err != nil {
		return err
	}
	c.invalidate(ctx, keys...)
	return nil
}

func (c *Cached) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "centre cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.WarnContext(ctx, "centre cache entry is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cached) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "centre cache write failed", "key", key, "error", err)
	}
}

func (c *Cached) invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WarnContext(ctx, "centre cache invalidation failed", "keys", keys, "error", err)
	}
}
