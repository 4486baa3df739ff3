// internal/aggregator/lookup.go
package aggregator

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"portfolio-projects/internal/model"
)

// lookupFunc fetches a single repository.
type lookupFunc func(ctx context.Context, id RepoIdentifier) (*model.RepoRecord, error)

// lookupCache maps RepoID to a fetched record, or to nil once a lookup has failed.
// Each id is fetched at most once per run.
type lookupCache struct {
	mu      sync.Mutex
	entries map[model.RepoID]*model.RepoRecord
	group   singleflight.Group
	fetch   lookupFunc
}

func newLookupCache(fetch lookupFunc) *lookupCache {
	return &lookupCache{
		entries: make(map[model.RepoID]*model.RepoRecord),
		fetch:   fetch,
	}
}

// seed records an already known repository. The first record for an id wins.
func (c *lookupCache) seed(rec *model.RepoRecord) {
	id := rec.ID()
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; !ok {
		c.entries[id] = rec
	}
}

// get returns the cached entry. found is false when the id was never resolved.
func (c *lookupCache) get(id model.RepoID) (rec *model.RepoRecord, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, found = c.entries[id]
	return rec, found
}

// resolve returns the cached record for id or fetches it. A failed fetch is
// remembered as missing and its error is returned to the caller that fetched.
// Run queues each id once, so the group only merges direct callers racing on
// the same id; it keeps resolve safe to call from any goroutine.
func (c *lookupCache) resolve(ctx context.Context, id RepoIdentifier) (*model.RepoRecord, error) {
	key := id.ID()
	if rec, found := c.get(key); found {
		return rec, nil
	}

	v, err, _ := c.group.Do(string(key), func() (any, error) {
		if rec, found := c.get(key); found {
			return rec, nil
		}
		rec, err := c.fetch(ctx, id)
		if err != nil {
			rec = nil
		}
		c.mu.Lock()
		c.entries[key] = rec
		c.mu.Unlock()
		return rec, err
	})
	rec, _ := v.(*model.RepoRecord)
	return rec, err
}
