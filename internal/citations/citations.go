// internal/citations/citations.go
package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio-projects/internal/model"
)

const (
	// DefaultBaseURL is the public OpenAlex API.
	DefaultBaseURL = "https://api.openalex.org"

	citingWorksURL = "https://openalex.org/works?filter="
)

// Client looks up live citation counts by DOI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Client. A nil httpClient gets a client with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

type work struct {
	ID           json.RawMessage `json:"id"`
	CitedByCount *int            `json:"cited_by_count"`
}

// Lookup fetches citation counts for dois concurrently. All requests share one
// cancellation signal derived from ctx, so cancelling ctx aborts them together.
// DOIs whose lookup fails are left out of the result.
func (c *Client) Lookup(ctx context.Context, dois []string) map[string]model.Citation {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*model.Citation, len(dois))
	var g errgroup.Group
	for i, doi := range dois {
		if doi == "" {
			continue
		}
		g.Go(func() error {
			cit, err := c.lookupOne(ctx, doi)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Debug("Citation lookup aborted", "doi", doi)
				} else {
					c.logger.Warn("Citation lookup failed", "doi", doi, "error", err)
				}
				return nil
			}
			results[i] = cit
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]model.Citation, len(dois))
	for _, cit := range results {
		if cit != nil {
			out[cit.DOI] = *cit
		}
	}
	return out
}

func (c *Client) lookupOne(ctx context.Context, doi string) (*model.Citation, error) {
	endpoint := c.baseURL + "/works/https://doi.org/" + escapeComponent(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var w work
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, err
	}
	if w.CitedByCount == nil {
		return nil, fmt.Errorf("response has no cited_by_count")
	}

	cit := &model.Citation{DOI: doi, Count: *w.CitedByCount}
	if id := workID(w.ID); id != "" {
		cit.CitationsURL = citingWorksURL + url.QueryEscape("cites:"+id)
	}
	return cit, nil
}

// componentUnescaper undoes the query-only encodings of url.QueryEscape so the
// result matches a URI component: spaces become %20 and !'()* stay literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s for use as a single path segment. Slashes are
// escaped, so a DOI stays one segment.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// workID returns the last path segment of an OpenAlex work id such as
// "https://openalex.org/W2741809807".
func workID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id[strings.LastIndex(id, "/")+1:]
}
