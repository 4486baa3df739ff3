// internal/protein/protein.go
package protein

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultSearchURL is the RCSB full text search endpoint.
	DefaultSearchURL = "https://search.rcsb.org/rcsbsearch/v2/query"
	// DefaultDataURL is the RCSB data API host.
	DefaultDataURL = "https://data.rcsb.org"

	noName     = "No protein name available"
	noOrganism = "Organism unknown"
	noMethod   = "Unknown experimental method"
	noYear     = "N/A"
	noKeywords = "No keywords"
)

// ErrNoResults is returned when a keyword matches no PDB entry.
var ErrNoResults = errors.New("no results found for the keyword")

// Metadata is the summary of one PDB entry. Missing fields carry readable defaults.
type Metadata struct {
	PDBID              string   `json:"pdb_id"`
	ProteinName        string   `json:"protein_name"`
	Organism           string   `json:"organism"`
	ExperimentalMethod string   `json:"experimental_method"`
	Resolution         *float64 `json:"resolution"`
	Year               string   `json:"year"`
	Authors            []string `json:"authors"`
	Keywords           string   `json:"keywords"`
}

// Entry is the best PDB hit for a keyword.
type Entry struct {
	PDBID    string   `json:"pdb_id"`
	Metadata Metadata `json:"metadata"`
}

// Client searches RCSB and fetches entry metadata.
type Client struct {
	httpClient *http.Client
	searchURL  string
	dataURL    string
	logger     *slog.Logger
}

// NewClient creates a Client. Empty URLs fall back to the public RCSB services.
func NewClient(searchURL, dataURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if dataURL == "" {
		dataURL = DefaultDataURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		searchURL:  searchURL,
		dataURL:    strings.TrimRight(dataURL, "/"),
		logger:     logger.With("component", "protein"),
	}
}

// Search runs a full text query and returns the metadata of the top hit.
func (c *Client) Search(ctx context.Context, keyword string) (*Entry, error) {
	id, err := c.topHit(ctx, keyword)
	if err != nil {
		return nil, err
	}
	meta, err := c.entry(ctx, id)
	if err != nil {
		c.logger.Warn("Failed to fetch entry metadata", "pdb_id", id, "error", err)
		return nil, fmt.Errorf("fetching metadata for %s: %w", id, err)
	}
	return &Entry{PDBID: id, Metadata: *meta}, nil
}

type searchRequest struct {
	Query struct {
		Type       string `json:"type"`
		Service    string `json:"service"`
		Parameters struct {
			Value string `json:"value"`
		} `json:"parameters"`
	} `json:"query"`
	ReturnType string `json:"return_type"`
}

type searchResponse struct {
	ResultSet []struct {
		Identifier string `json:"identifier"`
	} `json:"result_set"`
}

func (c *Client) topHit(ctx context.Context, keyword string) (string, error) {
	var q searchRequest
	q.Query.Type = "terminal"
	q.Query.Service = "full_text"
	q.Query.Parameters.Value = keyword
	q.ReturnType = "entry"

	body, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("searching %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		// RCSB answers an empty result set with 204.
		return "", ErrNoResults
	default:
		return "", fmt.Errorf("searching %q: unexpected status: %s", keyword, resp.Status)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}
	for _, hit := range sr.ResultSet {
		if hit.Identifier != "" {
			return hit.Identifier, nil
		}
	}
	return "", ErrNoResults
}

type rcsbEntry struct {
	Struct *struct {
		Title *string `json:"title"`
	} `json:"struct"`
	SourceOrganism []struct {
		ScientificName *string `json:"scientific_name"`
	} `json:"rcsb_entity_source_organism"`
	Exptl []struct {
		Method *string `json:"method"`
	} `json:"exptl"`
	EntryInfo *struct {
		ResolutionCombined []float64 `json:"resolution_combined"`
	} `json:"rcsb_entry_info"`
	PrimaryCitation *struct {
		Year    *int     `json:"year"`
		Authors []string `json:"rcsb_authors"`
	} `json:"rcsb_primary_citation"`
	StructKeywords *struct {
		PdbxKeywords *string `json:"pdbx_keywords"`
	} `json:"struct_keywords"`
}

func (c *Client) entry(ctx context.Context, id string) (*Metadata, error) {
	endpoint := c.dataURL + "/rest/v1/core/entry/" + url.PathEscape(id)
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

	var raw rcsbEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw.metadata(id), nil
}

func (e *rcsbEntry) metadata(id string) *Metadata {
	m := &Metadata{
		PDBID:              id,
		ProteinName:        noName,
		Organism:           noOrganism,
		ExperimentalMethod: noMethod,
		Year:               noYear,
		Authors:            []string{},
		Keywords:           noKeywords,
	}
	if e.Struct != nil && e.Struct.Title != nil {
		m.ProteinName = *e.Struct.Title
	}
	if len(e.SourceOrganism) > 0 && e.SourceOrganism[0].ScientificName != nil {
		m.Organism = *e.SourceOrganism[0].ScientificName
	}
	if len(e.Exptl) > 0 && e.Exptl[0].Method != nil {
		m.ExperimentalMethod = *e.Exptl[0].Method
	}
	if e.EntryInfo != nil && len(e.EntryInfo.ResolutionCombined) > 0 {
		res := e.EntryInfo.ResolutionCombined[0]
		m.Resolution = &res
	}
	if pc := e.PrimaryCitation; pc != nil {
		if pc.Year != nil {
			m.Year = strconv.Itoa(*pc.Year)
		}
		if pc.Authors != nil {
			m.Authors = pc.Authors
		}
	}
	if e.StructKeywords != nil && e.StructKeywords.PdbxKeywords != nil {
		m.Keywords = *e.StructKeywords.PdbxKeywords
	}
	return m
}
