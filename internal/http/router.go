package http

import (
	"context"
	"log/slog"
	"net/http"

	"notehub/internal/config"
	"notehub/internal/http/handler"
	"notehub/internal/http/live"
	mw "notehub/internal/http/middleware"
	"notehub/internal/http/view"
	"notehub/internal/notes"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the Note Hub pages. ctx bounds background middleware
// work such as the rate limiter sweep.
func NewRouter(ctx context.Context, cfg config.Config, q *notes.Queries, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.AccessLog(logger))
	r.Use(chimw.Recoverer)

	if cfg.RateLimitEnabled {
		r.Use(mw.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	views := view.New()
	pages := &handler.PagesHandler{Queries: q, Views: views, Site: cfg.Site}
	create := &handler.CreateHandler{Queries: q, Views: views, Site: cfg.Site}

	r.Get("/", pages.Home)

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/notes/filter/all", http.StatusFound)
		})
		r.Get("/filter", pages.List)
		r.Get("/filter/*", pages.List)
		r.Get("/action/create", create.Form)
		r.Post("/action/create", create.Submit)
		r.Get("/{id}", pages.Note)
	})

	r.Method(http.MethodGet, "/live/notes", &live.Handler{Queries: q, Views: views})

	r.NotFound(handler.NotFound(views, cfg.Site))

	return r
}
