// cmd/service/app.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio-projects/internal/aggregator"
	"portfolio-projects/internal/cache"
	"portfolio-projects/internal/citations"
	"portfolio-projects/internal/comics"
	"portfolio-projects/internal/config"
	"portfolio-projects/internal/github"
	"portfolio-projects/internal/protein"
	"portfolio-projects/internal/store"
	"portfolio-projects/internal/store/bolt"
	"portfolio-projects/internal/store/postgres"
	"portfolio-projects/internal/syncer"
)

// app holds the wired application components.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	cache     *cache.Cache
	syncer    *syncer.Syncer
	citations *citations.Client
	proteins  *protein.Client
	comics    *comics.Catalog
	close     func()
}

func newApp(ctx context.Context, configDir string, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel, logOut)
	logger.Info("Configuration loaded successfully",
		"username", cfg.GithubUsername, "orgs", len(cfg.GithubOrgs), "repos", len(cfg.GithubRepos),
		"cache_backend", cfg.CacheBackend)

	ghClient, err := github.NewClient(cfg.GithubToken, cfg.GithubAPIURL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	agg, err := aggregator.NewAggregator(ghClient, logger, cfg.GithubUsername, cfg.GithubOrgs, cfg.GithubRepos)
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregator: %w", err)
	}

	st, closeStore := openStore(ctx, cfg, logger)
	snapCache := cache.New(st, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		cache:     snapCache,
		syncer:    syncer.NewSyncer(agg, snapCache, logger, cfg.RefreshInterval),
		citations: citations.NewClient(cfg.OpenAlexURL, nil, logger),
		proteins:  protein.NewClient(cfg.RCSBSearchURL, cfg.RCSBDataURL, nil, logger),
		comics:    comics.NewCatalog(cfg.ComicsEndpointsURL, nil, logger),
		close:     closeStore,
	}, nil
}

func (a *app) Close() {
	a.close()
}

// openStore opens the configured cache backend. An unavailable backend degrades
// to running without a cache.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func()) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.CacheBolt:
		s, err := bolt.Open(cfg.CachePath)
		if err != nil {
			logger.Warn("Local cache unavailable, continuing without it", "path", cfg.CachePath, "error", err)
			return nil, noop
		}
		return s, func() { _ = s.Close() }

	case config.CachePostgres:
		if err := postgres.Migrate(cfg.DBURL); err != nil {
			logger.Warn("Database migrations failed, continuing without cache", "error", err)
			return nil, noop
		}
		dbpool, err := pgxpool.New(ctx, cfg.DBURL)
		if err != nil {
			logger.Warn("Database unavailable, continuing without cache", "error", err)
			return nil, noop
		}
		logger.Info("Database connection established")
		return postgres.New(dbpool), dbpool.Close

	case config.CacheMemory:
		return store.NewMemory(), noop
	}
	return nil, noop
}
