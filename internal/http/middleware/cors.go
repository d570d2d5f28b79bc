package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// CORS lets browser clients on other origins call the notes API. A "*"
// origin cannot be combined with credentials, so credentials are turned
// off in that case.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	creds := cfg.AllowCredentials && !slices.Contains(cfg.AllowedOrigins, "*")
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: creds,
		MaxAge:           300,
	})
}
