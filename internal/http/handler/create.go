package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"notehub/internal/config"
	"notehub/internal/http/view"
	"notehub/internal/note"
	"notehub/internal/notes"
)

type CreateHandler struct {
	Queries *notes.Queries
	Views   *view.Renderer
	Site    config.Site
}

const defaultBack = "/notes/filter/all"

// backPath returns p when it is a notes list path, so the form can
// return to the list it was opened from.
func backPath(p string) string {
	rest, ok := strings.CutPrefix(p, "/notes/filter/")
	if !ok || strings.ContainsAny(rest, "/?#") {
		return defaultBack
	}
	tag, ok := note.ParseFilter(rest)
	if !ok {
		return defaultBack
	}
	return "/notes/filter/" + tag
}

func (h *CreateHandler) Form(w http.ResponseWriter, r *http.Request) {
	back := backPath(r.URL.Query().Get("back"))
	h.renderForm(w, r, http.StatusOK, note.NewDraft(), nil, "", back)
}

func (h *CreateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	back := backPath(r.PostForm.Get("back"))
	d := note.Draft{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
		Tag:     note.Tag(strings.TrimSpace(r.PostForm.Get("tag"))),
	}

	form := notes.NewForm(h.Queries.API, h.Queries)
	created, err := form.Submit(r.Context(), d)
	if err != nil {
		var verr *note.ValidationError
		notice := ""
		if !errors.As(err, &verr) {
			slog.WarnContext(r.Context(), "create note failed", "err", err)
			notice = err.Error()
		}
		h.renderForm(w, r, statusFor(err), form.Values(), form.FieldErrors(), notice, back)
		return
	}

	slog.InfoContext(r.Context(), "note created", "id", created.ID.String(), "tag", string(created.Tag))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *CreateHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, d note.Draft, errs note.FieldErrors, notice, back string) {
	meta := siteMetadata(h.Site)
	meta.Title = "Create note | " + h.Site.Name
	meta.Description = "Create a new note on " + h.Site.Name + "."
	meta.URL = h.Site.BaseURL + "/notes/action/create"

	render(w, r, h.Views, status, "create", view.Page{
		Meta:   meta,
		Site:   h.Site,
		Notice: notice,
		Data:   view.Form{Values: d, Errors: errs, Tags: note.Tags, Back: back},
	})
}
