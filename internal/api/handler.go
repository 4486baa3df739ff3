// internal/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"portfolio-projects/internal/comics"
	"portfolio-projects/internal/model"
	"portfolio-projects/internal/protein"
	"portfolio-projects/internal/syncer"
)

// ViewSource exposes the snapshot currently served.
type ViewSource interface {
	Current() (syncer.View, bool)
}

// CitationLookup fetches live citation counts.
type CitationLookup interface {
	Lookup(ctx context.Context, dois []string) map[string]model.Citation
}

// ProteinSearcher finds the best PDB entry for a keyword.
type ProteinSearcher interface {
	Search(ctx context.Context, keyword string) (*protein.Entry, error)
}

// ComicFinder lists and searches comic titles.
type ComicFinder interface {
	Titles() []string
	Search(name string, limit int) []string
}

// Services are the read paths served by the router.
type Services struct {
	Views     ViewSource
	Citations CitationLookup
	DOIs      []string
	Proteins  ProteinSearcher
	Comics    ComicFinder
}

// Handler is the container for API dependencies.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

type projectsResponse struct {
	SavedAt     time.Time           `json:"saved_at"`
	Provisional bool                `json:"provisional"`
	Cards       []model.ProjectCard `json:"cards"`
	Totals      model.Totals        `json:"totals"`
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(svc Services, logger *slog.Logger) http.Handler {
	h := &Handler{
		svc:    svc,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/projects", h.getProjects)
		r.Get("/citations", h.getCitations)
		r.Get("/protein", h.getProtein)
		r.Route("/comics", func(r chi.Router) {
			r.Get("/", h.listComics)
			r.Get("/fuzzy-search", h.searchComics)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getProjects returns the pinned project cards and totals.
// GET /v1/projects
func (h *Handler) getProjects(w http.ResponseWriter, r *http.Request) {
	view, ok := h.svc.Views.Current()
	if !ok {
		respondWithError(w, http.StatusServiceUnavailable, "Projects are not available yet")
		return
	}

	cards := view.Snapshot.Cards
	if cards == nil {
		cards = []model.ProjectCard{}
	}
	respondWithJSON(w, http.StatusOK, projectsResponse{
		SavedAt:     view.Snapshot.SavedAt,
		Provisional: view.Provisional,
		Cards:       cards,
		Totals:      view.Snapshot.Totals,
	})
}

// getCitations returns live citation counts keyed by DOI.
// The request context cancels every outstanding lookup when the client goes away.
// GET /v1/citations
func (h *Handler) getCitations(w http.ResponseWriter, r *http.Request) {
	citations := h.svc.Citations.Lookup(r.Context(), h.svc.DOIs)
	if r.Context().Err() != nil {
		h.logger.Debug("Client went away during citation lookup")
		return
	}
	respondWithJSON(w, http.StatusOK, citations)
}

// getProtein returns metadata for the best PDB match of a keyword.
// GET /v1/protein?keyword=hemoglobin
func (h *Handler) getProtein(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	entry, err := h.svc.Proteins.Search(r.Context(), keyword)
	if err != nil {
		if errors.Is(err, protein.ErrNoResults) {
			respondWithError(w, http.StatusNotFound, "No results found for the keyword.")
			return
		}
		h.logger.Error("Protein search failed", "keyword", keyword, "error", err)
		respondWithError(w, http.StatusBadGateway, "Failed to fetch protein data")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// listComics returns every known comic title.
// GET /v1/comics
func (h *Handler) listComics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{"available_comics": h.svc.Comics.Titles()})
}

// searchComics returns the closest comic titles for a name.
// GET /v1/comics/fuzzy-search?comic_name=garfield
func (h *Handler) searchComics(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("comic_name"))
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "comic_name is required")
		return
	}

	matches := h.svc.Comics.Search(name, comics.MaxMatches)
	if len(matches) == 0 {
		respondWithError(w, http.StatusNotFound, "No matching comics found.")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"matches": matches})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
