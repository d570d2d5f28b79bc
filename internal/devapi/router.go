package devapi

import (
	"log/slog"
	"net/http"

	"notehub/internal/auth"
	mw "notehub/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	CORS mw.CORSConfig
}

func NewRouter(cfg RouterConfig, repo Repository, jwtSvc *auth.JWT, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.AccessLog(logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORS))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := &NotesHandler{Repo: repo, Logger: logger}

	r.Route("/notes", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
	})

	return r
}
