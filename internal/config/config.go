// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	custom_errors "portfolio-projects/internal/errors"
)

// Cache backends.
const (
	CacheBolt     = "bolt"
	CachePostgres = "postgres"
	CacheMemory   = "memory"
	CacheNone     = "none"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	GithubToken     string        `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL    string        `mapstructure:"GITHUB_API_URL"`
	GithubUsername  string        `mapstructure:"GITHUB_USERNAME"`
	GithubOrgsRaw   string        `mapstructure:"GITHUB_ORGS"`
	GithubReposRaw  string        `mapstructure:"GITHUB_REPOS"`
	CacheBackend    string        `mapstructure:"CACHE_BACKEND"`
	CachePath       string        `mapstructure:"CACHE_PATH"`
	DBURL           string        `mapstructure:"DB_URL"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	RefreshInterval time.Duration `mapstructure:"REFRESH_INTERVAL"`
	OpenAlexURL     string        `mapstructure:"OPENALEX_URL"`
	DOIsRaw         string        `mapstructure:"PUBLICATION_DOIS"`

	RCSBSearchURL      string `mapstructure:"RCSB_SEARCH_URL"`
	RCSBDataURL        string `mapstructure:"RCSB_DATA_URL"`
	ComicsEndpointsURL string `mapstructure:"COMICS_ENDPOINTS_URL"`

	GithubOrgs      []string `mapstructure:"-"`
	GithubRepos     []string `mapstructure:"-"`
	PublicationDOIs []string `mapstructure:"-"`
}

var keys = []string{
	"LOG_LEVEL", "GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_USERNAME", "GITHUB_ORGS",
	"GITHUB_REPOS", "CACHE_BACKEND", "CACHE_PATH", "DB_URL", "HTTP_ADDR",
	"REFRESH_INTERVAL", "OPENALEX_URL", "PUBLICATION_DOIS",
	"RCSB_SEARCH_URL", "RCSB_DATA_URL", "COMICS_ENDPOINTS_URL",
}

// LoadConfig reads configuration from a .env file in dir and/or environment variables.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CACHE_BACKEND", CacheBolt)
	v.SetDefault("CACHE_PATH", "portfolio-cache.db")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("REFRESH_INTERVAL", "1h")
	v.SetDefault("OPENALEX_URL", "https://api.openalex.org")
	v.SetDefault("RCSB_SEARCH_URL", "https://search.rcsb.org/rcsbsearch/v2/query")
	v.SetDefault("RCSB_DATA_URL", "https://data.rcsb.org")
	v.SetDefault("COMICS_ENDPOINTS_URL", "https://raw.githubusercontent.com/irahorecka/comics/refs/heads/main/src/comics/_constants/_endpoints.json")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.GithubOrgs = splitList(cfg.GithubOrgsRaw)
	cfg.GithubRepos = splitList(cfg.GithubReposRaw)
	cfg.PublicationDOIs = splitList(cfg.DOIsRaw)
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	// Validate required fields
	if cfg.GithubUsername == "" {
		return nil, errors.New("GITHUB_USERNAME is a required configuration field")
	}
	for _, repo := range cfg.GithubRepos {
		parts := strings.Split(repo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &custom_errors.ErrInvalidRepoFormat{Repo: repo}
		}
	}
	switch cfg.CacheBackend {
	case CacheBolt, CacheMemory, CacheNone:
	case CachePostgres:
		if cfg.DBURL == "" {
			return nil, errors.New("DB_URL is required when CACHE_BACKEND is postgres")
		}
	default:
		return nil, &custom_errors.ErrInvalidCacheBackend{Backend: cfg.CacheBackend}
	}
	if cfg.RefreshInterval <= 0 {
		return nil, errors.New("REFRESH_INTERVAL must be positive")
	}

	return &cfg, nil
}

// splitList splits a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
