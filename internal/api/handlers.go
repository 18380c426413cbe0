// Package api exposes the service over five JSON HTTP endpoints: settings
// save/load, the two ingestion triggers, and search.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/airmomo/starsearch/internal/config"
	"github.com/airmomo/starsearch/internal/repo"
	"github.com/airmomo/starsearch/internal/search"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Fetcher lists starred repositories for the authenticated user.
type Fetcher interface {
	ListStarred(ctx context.Context) ([]repo.Repository, error)
}

// DocSaver persists repository documents to the configured directory.
type DocSaver interface {
	Save(ctx context.Context, repos []repo.Repository, resave bool) error
}

// Runner executes the summarize-and-index ingestion pipeline.
type Runner interface {
	Run(ctx context.Context) error
}

// Searcher answers a free-text requirement; a nil result short-circuits to
// an empty response object.
type Searcher interface {
	Search(ctx context.Context, requirement string) (*search.Result, error)
}

// Factory builds the per-request collaborators from a settings snapshot.
// Collaborators are constructed per request so a settings save takes effect
// immediately.
type Factory interface {
	Fetcher(s config.Settings) (Fetcher, error)
	DocStore(s config.Settings) (DocSaver, error)
	Pipeline(ctx context.Context, s config.Settings) (Runner, error)
	Searcher(ctx context.Context, s config.Settings) (Searcher, error)
}

// Deps carries the handler dependencies.
type Deps struct {
	Config  *config.Manager
	Factory Factory
}

// NewHandler returns the HTTP handler for the five service endpoints.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Post("/save-settings", handleSaveSettings(deps))
	r.Get("/get-settings", handleGetSettings(deps))
	r.Get("/init-github-data", handleInitGitHubData(deps))
	r.Get("/init-chroma-collection", handleInitCollection(deps))
	r.Post("/search", handleSearch(deps))

	return r
}

// statusResponse is the success envelope of the mutation endpoints.
type statusResponse struct {
	Message string `json:"message"`
	Success int    `json:"success"`
}

// httpError converts any failure into the endpoint error contract:
// a 500 carrying the error message under "detail".
func httpError(w http.ResponseWriter, err error) {
	slog.Error("request failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func handleSaveSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		settings := config.Defaults()
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			httpError(w, fmt.Errorf("invalid settings body: %w", err))
			return
		}
		if err := deps.Config.Save(settings); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, statusResponse{Message: "Settings saved successfully!", Success: 1})
	}
}

func handleGetSettings(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Config.Persisted() {
			writeJSON(w, struct{}{})
			return
		}
		writeJSON(w, deps.Config.Current())
	}
}

func handleInitGitHubData(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := deps.Config.Current()

		fetcher, err := deps.Factory.Fetcher(settings)
		if err != nil {
			httpError(w, err)
			return
		}
		slog.Info("fetching starred repositories")
		repos, err := fetcher.ListStarred(r.Context())
		if err != nil {
			httpError(w, err)
			return
		}
		slog.Info("fetched starred repositories, saving documents", "count", len(repos))

		store, err := deps.Factory.DocStore(settings)
		if err != nil {
			httpError(w, err)
			return
		}
		if err := store.Save(r.Context(), repos, settings.ReSave); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, statusResponse{Message: "Github-star-data inited successfully!", Success: 1})
	}
}

func handleInitCollection(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := deps.Config.Current()

		pipeline, err := deps.Factory.Pipeline(r.Context(), settings)
		if err != nil {
			httpError(w, err)
			return
		}
		if err := pipeline.Run(r.Context()); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, statusResponse{Message: "Chroma-collection inited successfully!", Success: 1})
	}
}

// requirement is the search request body.
type requirement struct {
	Detail string `json:"detail"`
}

func handleSearch(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		req := requirement{Detail: "Nothing"}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, fmt.Errorf("invalid search body: %w", err))
			return
		}

		settings := deps.Config.Current()
		searcher, err := deps.Factory.Searcher(r.Context(), settings)
		if err != nil {
			httpError(w, err)
			return
		}

		result, err := searcher.Search(r.Context(), req.Detail)
		if err != nil {
			httpError(w, err)
			return
		}
		if result == nil {
			writeJSON(w, struct{}{})
			return
		}
		writeJSON(w, result)
	}
}
