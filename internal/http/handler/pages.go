package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"notehub/internal/config"
	"notehub/internal/http/view"
	"notehub/internal/note"
	"notehub/internal/notehub"
	"notehub/internal/notes"

	"github.com/go-chi/chi/v5"
)

type PagesHandler struct {
	Queries *notes.Queries
	Views   *view.Renderer
	Site    config.Site
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.Views, http.StatusOK, "home", view.Page{Meta: siteMetadata(h.Site), Site: h.Site})
}

// List serves /notes/filter/{tag}/... . The first slug segment is the tag
// filter; ?page and ?search are honoured for clients without scripts.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	segment, _, _ := strings.Cut(strings.Trim(chi.URLParam(r, "*"), "/"), "/")
	tag, ok := note.ParseFilter(segment)
	if !ok {
		NotFound(h.Views, h.Site)(w, r)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	key := note.NewListKey(tag, page, search)

	status := http.StatusOK
	notice := ""
	if err := h.Queries.Lists.Prefetch(r.Context(), key); err != nil {
		slog.WarnContext(r.Context(), "list prefetch failed", "tag", tag, "page", key.Page, "err", err)
		notice = serviceNotice
		status = statusFor(err)
	}

	data := view.List{
		Tag:      tag,
		Tags:     note.Tags,
		BasePath: "/notes/filter/" + tag,
		Search:   search,
		Key:      key,
		LiveURL:  liveURL(key),
	}
	if res, ok := h.Queries.Lists.Peek(key); ok && res.HasData {
		status = http.StatusOK
		data.Result = res.Data
		data.HasData = true
	}
	data.Controls = notes.Paginate(key.Page, data.Result.TotalPages, len(data.Result.Notes) > 0)

	render(w, r, h.Views, status, "notes", view.Page{
		Meta:   listMetadata(h.Site, tag),
		Site:   h.Site,
		Notice: notice,
		Data:   data,
	})
}

func (h *PagesHandler) Note(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		NotFound(h.Views, h.Site)(w, r)
		return
	}
	key := note.NoteKey{ID: note.ID(id)}

	err := h.Queries.Notes.Prefetch(r.Context(), key)
	if errors.Is(err, notehub.ErrNotFound) {
		NotFound(h.Views, h.Site)(w, r)
		return
	}

	res, ok := h.Queries.Notes.Peek(key)
	if err != nil && (!ok || !res.HasData) {
		slog.WarnContext(r.Context(), "note prefetch failed", "id", id, "err", err)
		render(w, r, h.Views, statusFor(err), "error", view.Page{Meta: siteMetadata(h.Site), Site: h.Site})
		return
	}

	p := view.Page{
		Meta: noteMetadata(h.Site, res.Data),
		Site: h.Site,
		Data: view.Detail{Note: res.Data},
	}
	if err != nil {
		p.Notice = serviceNotice
	}
	render(w, r, h.Views, http.StatusOK, "note", p)
}

func liveURL(k note.ListKey) string {
	q := url.Values{}
	q.Set("tag", k.Tag)
	q.Set("page", strconv.Itoa(k.Page))
	if k.Search != "" {
		q.Set("search", k.Search)
	}
	return "/live/notes?" + q.Encode()
}
