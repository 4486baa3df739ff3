// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "portfolio-projects/internal/errors"
)

func TestLoadConfig(t *testing.T) {
	t.Run("reads lists and defaults from the environment", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "octo")
		t.Setenv("GITHUB_ORGS", "acme, bio-lab ,")
		t.Setenv("GITHUB_REPOS", "octo/tool, acme/risk")
		t.Setenv("PUBLICATION_DOIS", "10.1093/bioinformatics/btaf669")

		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "octo", cfg.GithubUsername)
		assert.Equal(t, []string{"acme", "bio-lab"}, cfg.GithubOrgs)
		assert.Equal(t, []string{"octo/tool", "acme/risk"}, cfg.GithubRepos)
		assert.Equal(t, []string{"10.1093/bioinformatics/btaf669"}, cfg.PublicationDOIs)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, CacheBolt, cfg.CacheBackend)
		assert.Equal(t, time.Hour, cfg.RefreshInterval)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "https://search.rcsb.org/rcsbsearch/v2/query", cfg.RCSBSearchURL)
		assert.Equal(t, "https://data.rcsb.org", cfg.RCSBDataURL)
		assert.Contains(t, cfg.ComicsEndpointsURL, "_endpoints.json")
	})

	t.Run("reads a .env file", func(t *testing.T) {
		dir := t.TempDir()
		env := "GITHUB_USERNAME=filed\nCACHE_BACKEND=memory\nREFRESH_INTERVAL=15m\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

		cfg, err := LoadConfig(dir)

		require.NoError(t, err)
		assert.Equal(t, "filed", cfg.GithubUsername)
		assert.Equal(t, CacheMemory, cfg.CacheBackend)
		assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
		assert.Empty(t, cfg.GithubOrgs)
	})

	t.Run("requires a username", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "")

		_, err := LoadConfig(t.TempDir())
		assert.EqualError(t, err, "GITHUB_USERNAME is a required configuration field")
	})

	t.Run("rejects malformed repositories", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "octo")
		t.Setenv("GITHUB_REPOS", "octo/tool,just-a-name")

		_, err := LoadConfig(t.TempDir())

		var formatErr *custom_errors.ErrInvalidRepoFormat
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "just-a-name", formatErr.Repo)
	})

	t.Run("rejects unknown cache backends", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "octo")
		t.Setenv("CACHE_BACKEND", "redis")

		_, err := LoadConfig(t.TempDir())

		var backendErr *custom_errors.ErrInvalidCacheBackend
		assert.ErrorAs(t, err, &backendErr)
	})

	t.Run("postgres needs a database URL", func(t *testing.T) {
		t.Setenv("GITHUB_USERNAME", "octo")
		t.Setenv("CACHE_BACKEND", "postgres")

		_, err := LoadConfig(t.TempDir())

		assert.EqualError(t, err, "DB_URL is required when CACHE_BACKEND is postgres")
	})
}
