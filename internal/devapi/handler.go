package devapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"notehub/internal/note"

	"github.com/go-chi/chi/v5"
)

type NotesHandler struct {
	Repo   Repository
	Logger *slog.Logger
}

type listResp struct {
	Notes      []noteDTO `json:"notes"`
	TotalPages int       `json:"totalPages"`
}

type noteDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Tag       string `json:"tag"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toDTO(n Note) noteDTO {
	return noteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tag:       n.Tag,
		CreatedAt: n.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: n.UpdatedAt.UTC().Format(timeLayout),
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := ListQuery{
		Search: qs.Get("search"),
		Tag:    qs.Get("tag"),
	}
	var err error
	if q.Page, err = intParam(qs.Get("page"), 1); err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	if q.PerPage, err = intParam(qs.Get("perPage"), note.PageSize); err != nil {
		http.Error(w, "invalid perPage", http.StatusBadRequest)
		return
	}
	if q.Tag != "" && q.Tag != note.TagAll && !note.Tag(q.Tag).Valid() {
		http.Error(w, "invalid tag", http.StatusBadRequest)
		return
	}
	q = q.normalize()

	rows, total, err := h.Repo.List(r.Context(), q)
	if err != nil {
		h.serverError(w, "list notes", err)
		return
	}

	out := listResp{Notes: make([]noteDTO, 0, len(rows))}
	for _, n := range rows {
		out.Notes = append(out.Notes, toDTO(n))
	}
	out.TotalPages = int((total + int64(q.PerPage) - 1) / int64(q.PerPage))

	writeJSON(w, http.StatusOK, out)
}

func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id64, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "note not found", http.StatusNotFound)
		return
	}

	n, err := h.Repo.Get(r.Context(), id64)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "note not found", http.StatusNotFound)
		default:
			h.serverError(w, "get note", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, toDTO(n))
}

func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d note.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := note.Check(d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var idem *string
	if k := strings.TrimSpace(r.Header.Get("Idempotency-Key")); k != "" {
		idem = &k
	}

	n, err := h.Repo.Create(r.Context(), d, idem)
	if err != nil {
		h.serverError(w, "create note", err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(n))
}

func (h *NotesHandler) serverError(w http.ResponseWriter, op string, err error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(op, "err", err)
	http.Error(w, "server error", http.StatusInternalServerError)
}

func intParam(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
