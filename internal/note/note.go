package note

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ID is the opaque note identifier. The remote service has used both
// numeric and string ids, so both JSON forms are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("note id: expected string or number")
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Note is immutable from this layer's point of view; CreatedAt and
// UpdatedAt are assigned by the notes service.
type Note struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Excerpt returns at most max runes of the content.
func (n Note) Excerpt(max int) string {
	r := []rune(strings.TrimSpace(n.Content))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max])
}

// Draft is the input of a create.
type Draft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     Tag    `json:"tag"`
}

// NewDraft returns the initial form values.
func NewDraft() Draft {
	return Draft{Tag: TagTodo}
}

// PageResult is one page of a list query.
type PageResult struct {
	Notes      []Note `json:"notes"`
	TotalPages int    `json:"totalPages"`
}
