package notehub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"notehub/internal/note"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotesQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"notes":[{"id":1,"title":"One","content":"","tag":"Work"}],"totalPages":3}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/", Token: "tok"})
	res, err := c.ListNotes(context.Background(), ListParams{Page: 2, PerPage: 8, Search: " milk ", Tag: "Work"})
	require.NoError(t, err)

	assert.Equal(t, "/notes", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "8", got.URL.Query().Get("perPage"))
	assert.Equal(t, "milk", got.URL.Query().Get("search"))
	assert.Equal(t, "Work", got.URL.Query().Get("tag"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))

	require.Len(t, res.Notes, 1)
	assert.Equal(t, note.ID("1"), res.Notes[0].ID)
	assert.Equal(t, 3, res.TotalPages)
}

func TestListNotesTagAllOmitsTag(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"totalPages":1}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	res, err := c.ListNotes(context.Background(), ListParamsFor(note.NewListKey(note.TagAll, 1, "")))
	require.NoError(t, err)
	assert.NotNil(t, res.Notes)

	_, err = c.ListNotes(context.Background(), ListParams{Page: 1, PerPage: 8})
	require.NoError(t, err)

	require.Len(t, queries, 2)
	assert.Equal(t, queries[0], queries[1])
	assert.Equal(t, "page=1&perPage=8", queries[0])
}

func TestGetNoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Note not found"}`))
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}).GetNote(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "Note not found", se.Message)
}

func TestServiceErrorIsNotNotFoundForOtherStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(Options{BaseURL: srv.URL}).ListNotes(context.Background(), ListParams{Page: 1})
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.Status)
	assert.Equal(t, "boom", se.Message)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(Options{BaseURL: url}).GetNote(context.Background(), "1")
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "get note", ne.Op)
}

func TestCreateNoteSendsDraft(t *testing.T) {
	var body note.Draft
	var idem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		idem = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "abc", "title": body.Title, "content": body.Content, "tag": body.Tag,
		})
	}))
	defer srv.Close()

	d := note.Draft{Title: "Buy milk", Content: "2l", Tag: note.TagShopping}
	n, err := New(Options{BaseURL: srv.URL}).CreateNote(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, d, body)
	assert.NotEmpty(t, idem)
	assert.Equal(t, note.ID("abc"), n.ID)
	assert.Equal(t, d.Title, n.Title)
	assert.Equal(t, d.Content, n.Content)
	assert.Equal(t, d.Tag, n.Tag)
}
