// internal/comics/comics.go
package comics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/sahilm/fuzzy"
)

const (
	// DefaultEndpointsURL lists every known comic strip keyed by its endpoint name.
	DefaultEndpointsURL = "https://raw.githubusercontent.com/irahorecka/comics/refs/heads/main/src/comics/_constants/_endpoints.json"

	// MaxMatches caps the fuzzy search result.
	MaxMatches = 5
)

type comic struct {
	key   string
	title string
	term  string
}

// Catalog holds the comic titles loaded from the endpoint list.
type Catalog struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger

	mu     sync.RWMutex
	comics []comic
}

// NewCatalog creates an empty Catalog. Call Load to fill it.
func NewCatalog(endpointsURL string, httpClient *http.Client, logger *slog.Logger) *Catalog {
	if endpointsURL == "" {
		endpointsURL = DefaultEndpointsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Catalog{
		httpClient: httpClient,
		url:        endpointsURL,
		logger:     logger.With("component", "comics"),
	}
}

// Load fetches the endpoint list and replaces the catalog. On failure the
// previous catalog is kept.
func (c *Catalog) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching comic endpoints: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching comic endpoints: unexpected status: %s", resp.Status)
	}

	var endpoints map[string]struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&endpoints); err != nil {
		return fmt.Errorf("decoding comic endpoints: %w", err)
	}

	loaded := make([]comic, 0, len(endpoints))
	for key, ep := range endpoints {
		if ep.Title == "" {
			continue
		}
		loaded = append(loaded, comic{key: key, title: ep.Title, term: normalize(key)})
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].title < loaded[j].title })

	c.mu.Lock()
	c.comics = loaded
	c.mu.Unlock()

	c.logger.Info("Loaded comic endpoints", "count", len(loaded))
	return nil
}

// Titles returns every comic title, sorted.
func (c *Catalog) Titles() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	titles := make([]string, len(c.comics))
	for i, cm := range c.comics {
		titles[i] = cm.title
	}
	return titles
}

// Search returns up to limit titles whose endpoint name fuzzily matches name,
// best match first.
func (c *Catalog) Search(name string, limit int) []string {
	pattern := normalize(name)
	if pattern == "" {
		return []string{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := fuzzy.FindFrom(pattern, terms(c.comics))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = c.comics[m.Index].title
	}
	return titles
}

// terms adapts the catalog to fuzzy.Source.
type terms []comic

func (t terms) String(i int) string { return t[i].term }
func (t terms) Len() int            { return len(t) }

// normalize lowercases s and keeps only letters and digits, so "Calvin & Hobbes"
// and the endpoint name "calvinandhobbes" compare alike.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
