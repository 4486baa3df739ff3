// internal/api/handler_test.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"portfolio-projects/internal/model"
	"portfolio-projects/internal/protein"
	"portfolio-projects/internal/syncer"
)

type stubViews struct {
	view syncer.View
	ok   bool
}

func (s stubViews) Current() (syncer.View, bool) { return s.view, s.ok }

// MockCitations is a mock of the CitationLookup interface.
type MockCitations struct {
	mock.Mock
}

func (m *MockCitations) Lookup(ctx context.Context, dois []string) map[string]model.Citation {
	args := m.Called(ctx, dois)
	return args.Get(0).(map[string]model.Citation)
}

// MockProteins is a mock of the ProteinSearcher interface.
type MockProteins struct {
	mock.Mock
}

func (m *MockProteins) Search(ctx context.Context, keyword string) (*protein.Entry, error) {
	args := m.Called(ctx, keyword)
	entry, _ := args.Get(0).(*protein.Entry)
	return entry, args.Error(1)
}

type stubComics struct {
	titles  []string
	matches map[string][]string
}

func (s stubComics) Titles() []string { return s.titles }
func (s stubComics) Search(name string, limit int) []string {
	m := s.matches[name]
	if len(m) > limit {
		m = m[:limit]
	}
	return m
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter(t *testing.T) {
	savedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("health", func(t *testing.T) {
		rec := serve(t, NewRouter(Services{Views: stubViews{}, Citations: new(MockCitations)}, testLogger), "/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("projects are unavailable before the first view", func(t *testing.T) {
		rec := serve(t, NewRouter(Services{Views: stubViews{}, Citations: new(MockCitations)}, testLogger), "/v1/projects")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"Projects are not available yet"}`, rec.Body.String())
	})

	t.Run("projects returns the current view", func(t *testing.T) {
		views := stubViews{ok: true, view: syncer.View{
			Provisional: true,
			Snapshot: model.CacheSnapshot{
				SavedAt: savedAt,
				Cards: []model.ProjectCard{{
					Title: "acme/risk", Description: "Network annotation", Stars: 50, Forks: 20,
					Languages: []string{"Python"}, Link: "https://github.com/acme/risk",
				}},
				Totals: model.Totals{Stars: 61, Forks: 22},
			},
		}}

		rec := serve(t, NewRouter(Services{Views: views, Citations: new(MockCitations)}, testLogger), "/v1/projects")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{
			"saved_at": "2026-03-01T09:30:00Z",
			"provisional": true,
			"cards": [{"title": "acme/risk", "description": "Network annotation", "stars": 50, "forks": 20,
				"languages": ["Python"], "link": "https://github.com/acme/risk"}],
			"totals": {"stars": 61, "forks": 22}
		}`, rec.Body.String())
	})

	t.Run("citations for the configured DOIs", func(t *testing.T) {
		dois := []string{"10.1093/bioinformatics/btaf669"}
		cits := new(MockCitations)
		cits.On("Lookup", mock.Anything, dois).Return(map[string]model.Citation{
			dois[0]: {DOI: dois[0], Count: 12},
		}).Once()

		rec := serve(t, NewRouter(Services{Views: stubViews{}, Citations: cits, DOIs: dois}, testLogger), "/v1/citations")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"10.1093/bioinformatics/btaf669": {"doi": "10.1093/bioinformatics/btaf669", "count": 12}}`, rec.Body.String())
		cits.AssertExpectations(t)
	})
}

func TestRouter_Protein(t *testing.T) {
	t.Run("returns the best entry", func(t *testing.T) {
		proteins := new(MockProteins)
		proteins.On("Search", mock.Anything, "hemoglobin").Return(&protein.Entry{
			PDBID: "4HHB",
			Metadata: protein.Metadata{
				PDBID: "4HHB", ProteinName: "DEOXYHAEMOGLOBIN", Organism: "Organism unknown",
				ExperimentalMethod: "X-RAY DIFFRACTION", Year: "1984", Authors: []string{}, Keywords: "OXYGEN TRANSPORT",
			},
		}, nil).Once()

		rec := serve(t, NewRouter(Services{Proteins: proteins}, testLogger), "/v1/protein?keyword=hemoglobin")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"pdb_id": "4HHB", "metadata": {
			"pdb_id": "4HHB", "protein_name": "DEOXYHAEMOGLOBIN", "organism": "Organism unknown",
			"experimental_method": "X-RAY DIFFRACTION", "resolution": null, "year": "1984",
			"authors": [], "keywords": "OXYGEN TRANSPORT"}}`, rec.Body.String())
		proteins.AssertExpectations(t)
	})

	t.Run("requires a keyword", func(t *testing.T) {
		proteins := new(MockProteins)

		rec := serve(t, NewRouter(Services{Proteins: proteins}, testLogger), "/v1/protein?keyword=%20")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		proteins.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("no hits is not found", func(t *testing.T) {
		proteins := new(MockProteins)
		proteins.On("Search", mock.Anything, "zzz").Return(nil, fmt.Errorf("search: %w", protein.ErrNoResults)).Once()

		rec := serve(t, NewRouter(Services{Proteins: proteins}, testLogger), "/v1/protein?keyword=zzz")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"No results found for the keyword."}`, rec.Body.String())
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		proteins := new(MockProteins)
		proteins.On("Search", mock.Anything, "4hhb").Return(nil, errors.New("unexpected status: 500")).Once()

		rec := serve(t, NewRouter(Services{Proteins: proteins}, testLogger), "/v1/protein?keyword=4hhb")

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestRouter_Comics(t *testing.T) {
	catalog := stubComics{
		titles: []string{"Calvin and Hobbes", "Garfield"},
		matches: map[string][]string{
			"garf": {"Garfield", "Garfield Minus Garfield"},
		},
	}
	router := NewRouter(Services{Comics: catalog}, testLogger)

	t.Run("lists every title", func(t *testing.T) {
		rec := serve(t, router, "/v1/comics")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"available_comics": ["Calvin and Hobbes", "Garfield"]}`, rec.Body.String())
	})

	t.Run("fuzzy search returns matches", func(t *testing.T) {
		rec := serve(t, router, "/v1/comics/fuzzy-search?comic_name=garf")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"matches": ["Garfield", "Garfield Minus Garfield"]}`, rec.Body.String())
	})

	t.Run("fuzzy search without matches is not found", func(t *testing.T) {
		rec := serve(t, router, "/v1/comics/fuzzy-search?comic_name=xkcd")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"No matching comics found."}`, rec.Body.String())
	})

	t.Run("fuzzy search requires a name", func(t *testing.T) {
		rec := serve(t, router, "/v1/comics/fuzzy-search")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
