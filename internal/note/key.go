package note

import "strings"

// PageSize is the fixed number of notes per list page.
const PageSize = 8

const (
	KindNotes = "notes"
	KindNote  = "note"
)

// ListKey identifies one list request. Two keys are the same cache slot
// exactly when all fields are equal.
type ListKey struct {
	Tag     string
	Page    int
	PerPage int
	Search  string
}

func (ListKey) Kind() string { return KindNotes }

// NewListKey normalizes its inputs: empty tag becomes "all", page is at
// least 1 and search is trimmed.
func NewListKey(tag string, page int, search string) ListKey {
	if tag == "" {
		tag = TagAll
	}
	if page < 1 {
		page = 1
	}
	return ListKey{
		Tag:     tag,
		Page:    page,
		PerPage: PageSize,
		Search:  strings.TrimSpace(search),
	}
}

// TagParam is the tag to send to the notes service; "all" means none.
func (k ListKey) TagParam() string {
	if k.Tag == TagAll {
		return ""
	}
	return k.Tag
}

// NoteKey identifies a single note fetch.
type NoteKey struct {
	ID ID
}

func (NoteKey) Kind() string { return KindNote }
