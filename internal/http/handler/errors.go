package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"notehub/internal/config"
	"notehub/internal/http/view"
	"notehub/internal/note"
	"notehub/internal/notehub"
	"notehub/internal/notes"
)

const serviceNotice = "Could not reach the notes service. Showing the last loaded data, if any."

// statusFor maps a failure to the HTTP status of the page reporting it.
func statusFor(err error) int {
	var verr *note.ValidationError
	var serr *notes.SubmitError
	var nerr *notehub.NetworkError
	var svc *notehub.ServiceError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, notehub.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &serr), errors.As(err, &nerr), errors.As(err, &svc):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func render(w http.ResponseWriter, r *http.Request, views *view.Renderer, status int, name string, p view.Page) {
	if err := views.Render(w, status, name, p); err != nil {
		slog.ErrorContext(r.Context(), "render failed", "page", name, "err", err)
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

// NotFound renders the not-found page.
func NotFound(views *view.Renderer, site config.Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, views, http.StatusNotFound, "notfound", view.Page{Meta: notFoundMetadata(site), Site: site})
	}
}
