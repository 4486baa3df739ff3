// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"portfolio-projects/internal/model"
	"portfolio-projects/internal/store"
)

// SnapshotKey is the fixed key of the coding projects snapshot.
const SnapshotKey = "coding-projects-cache-v1"

// Cache is a best-effort snapshot cache. Failures are logged and reported as
// misses or unsaved writes, never as errors.
type Cache struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Cache. A nil store disables caching.
func New(s store.Store, logger *slog.Logger) *Cache {
	return &Cache{store: s, logger: logger, now: time.Now}
}

// Load returns the last saved snapshot. ok is false when the entry is absent,
// unreadable or corrupt.
func (c *Cache) Load(ctx context.Context) (snap *model.CacheSnapshot, ok bool) {
	if c.store == nil {
		return nil, false
	}

	data, err := c.store.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warn("Reading cached snapshot failed", "error", err)
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		c.logger.Warn("Discarding corrupt cached snapshot", "error", err)
		return nil, false
	}
	if snap == nil {
		return nil, false
	}
	return snap, true
}

// Save overwrites the snapshot with cards and totals stamped with the current time.
// The snapshot is returned even when it could not be written.
func (c *Cache) Save(ctx context.Context, cards []model.ProjectCard, totals model.Totals) (model.CacheSnapshot, bool) {
	snap := model.CacheSnapshot{
		SavedAt: c.now().UTC(),
		Cards:   cards,
		Totals:  totals,
	}
	if c.store == nil {
		return snap, false
	}

	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("Encoding snapshot failed", "error", err)
		return snap, false
	}
	if err := c.store.Put(ctx, SnapshotKey, data); err != nil {
		c.logger.Warn("Writing snapshot failed", "error", err)
		return snap, false
	}
	return snap, true
}
