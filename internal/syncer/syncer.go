// internal/syncer/syncer.go
package syncer

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"portfolio-projects/internal/aggregator"
	"portfolio-projects/internal/model"
)

// Aggregator computes a fresh result from the network.
type Aggregator interface {
	Run(ctx context.Context) aggregator.Result
}

// SnapshotCache persists the last result between restarts.
type SnapshotCache interface {
	Load(ctx context.Context) (*model.CacheSnapshot, bool)
	Save(ctx context.Context, cards []model.ProjectCard, totals model.Totals) (model.CacheSnapshot, bool)
}

// View is the snapshot currently served. Provisional views come from the cache
// and are replaced by the next completed run.
type View struct {
	Snapshot    model.CacheSnapshot
	Provisional bool
}

// Syncer orchestrates cache painting, aggregation runs and persistence.
type Syncer struct {
	agg          Aggregator
	cache        SnapshotCache
	logger       *slog.Logger
	syncInterval time.Duration
	current      atomic.Pointer[View]
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(agg Aggregator, cache SnapshotCache, logger *slog.Logger, interval time.Duration) *Syncer {
	return &Syncer{
		agg:          agg,
		cache:        cache,
		logger:       logger,
		syncInterval: interval,
	}
}

// Start paints from the cache, then refreshes until ctx is cancelled.
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.syncInterval.String())
	s.PaintFromCache(ctx)

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	_, _ = s.RunOnce(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

// PaintFromCache publishes the cached snapshot as a provisional view.
// It does nothing when a fresh view is already published or nothing is cached.
func (s *Syncer) PaintFromCache(ctx context.Context) bool {
	snap, ok := s.cache.Load(ctx)
	if !ok {
		s.logger.Info("No cached snapshot available")
		return false
	}
	painted := s.current.CompareAndSwap(nil, &View{Snapshot: *snap, Provisional: true})
	if painted {
		s.logger.Info("Painted cached snapshot", "saved_at", snap.SavedAt, "cards", len(snap.Cards))
	}
	return painted
}

// RunOnce runs one aggregation, publishes and persists the result.
// A cycle interrupted by ctx is discarded: the served view and the cache keep
// the last completed snapshot, which is returned together with ctx.Err().
func (s *Syncer) RunOnce(ctx context.Context) (model.CacheSnapshot, error) {
	logger := s.logger.With("run_id", uuid.NewString())
	logger.Info("Starting new sync cycle")
	started := time.Now()

	result := s.agg.Run(ctx)
	if err := ctx.Err(); err != nil {
		logger.Warn("Sync cycle interrupted, keeping previous snapshot",
			"duration", time.Since(started).String(), "reason", err)
		view, _ := s.Current()
		return view.Snapshot, err
	}

	snap, saved := s.cache.Save(ctx, result.Cards, result.Totals)
	s.current.Store(&View{Snapshot: snap})

	logger.Info("Sync cycle finished",
		"duration", time.Since(started).String(),
		"stars", result.Totals.Stars, "forks", result.Totals.Forks,
		"repos", result.Repos, "cached", saved)
	return snap, nil
}

// Current returns the view being served, if any.
func (s *Syncer) Current() (View, bool) {
	v := s.current.Load()
	if v == nil {
		return View{}, false
	}
	return *v, true
}
