package notes

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"notehub/internal/note"
	"notehub/internal/notehub"
)

// memAPI is an in-memory notes service.
type memAPI struct {
	mu      sync.Mutex
	notes   []note.Note
	lists   int
	failErr error
}

func (m *memAPI) ListNotes(_ context.Context, p notehub.ListParams) (note.PageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	if m.failErr != nil {
		return note.PageResult{}, m.failErr
	}

	var match []note.Note
	for i := len(m.notes) - 1; i >= 0; i-- {
		n := m.notes[i]
		if p.Tag != "" && string(n.Tag) != p.Tag {
			continue
		}
		if p.Search != "" && !strings.Contains(n.Title+" "+n.Content, p.Search) {
			continue
		}
		match = append(match, n)
	}

	total := (len(match) + p.PerPage - 1) / p.PerPage
	start := (p.Page - 1) * p.PerPage
	if start > len(match) {
		start = len(match)
	}
	end := min(start+p.PerPage, len(match))
	return note.PageResult{Notes: match[start:end], TotalPages: total}, nil
}

func (m *memAPI) GetNote(_ context.Context, id note.ID) (note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return note.Note{}, &notehub.ServiceError{Op: "get note", Status: 404}
}

func (m *memAPI) CreateNote(_ context.Context, d note.Draft) (note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return note.Note{}, m.failErr
	}
	n := note.Note{ID: note.ID(strconv.Itoa(len(m.notes) + 1)), Title: d.Title, Content: d.Content, Tag: d.Tag}
	m.notes = append(m.notes, n)
	return n, nil
}

func (m *memAPI) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

var errDown = errors.New("connection refused")
