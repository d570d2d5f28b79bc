package notes

import (
	"strings"
	"sync"
	"time"

	"notehub/internal/note"
)

// SearchDebounce is how long search input must stay unchanged before it
// is committed.
const SearchDebounce = 500 * time.Millisecond

// ListView is the state of one notes list: the tag from the route, the
// current page, the raw search input and the committed search. OnChange
// is called with the new key whenever the active key changes.
type ListView struct {
	tag      string
	debounce time.Duration
	onChange func(note.ListKey)

	mu          sync.Mutex
	page        int
	searchInput string
	search      string
	timer       *time.Timer
	gen         uint64
	closed      bool
}

func NewListView(tag string, debounce time.Duration, onChange func(note.ListKey)) *ListView {
	if debounce <= 0 {
		debounce = SearchDebounce
	}
	if onChange == nil {
		onChange = func(note.ListKey) {}
	}
	return &ListView{tag: tag, debounce: debounce, onChange: onChange, page: 1}
}

// Restore sets the page and committed search handed over by a server
// render. It does not call OnChange.
func (v *ListView) Restore(page int, search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.page = page
	v.search = strings.TrimSpace(search)
	v.searchInput = search
}

// Key is the active query descriptor.
func (v *ListView) Key() note.ListKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.keyLocked()
}

func (v *ListView) SearchInput() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchInput
}

// SetSearchInput records a keystroke. Any pending commit is cancelled and
// a new one is scheduled after the debounce interval.
func (v *ListView) SetSearchInput(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	v.searchInput = s
	v.gen++
	gen := v.gen
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, func() { v.commit(gen) })
}

// SetPage moves to page p right away.
func (v *ListView) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	v.mu.Lock()
	if v.closed || p == v.page {
		v.mu.Unlock()
		return
	}
	v.page = p
	key := v.keyLocked()
	v.mu.Unlock()

	v.onChange(key)
}

// Close cancels any pending commit. Later input is ignored.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
	}
}

func (v *ListView) commit(gen uint64) {
	v.mu.Lock()
	// a later keystroke or Close won the race with this timer
	if v.closed || gen != v.gen {
		v.mu.Unlock()
		return
	}
	prev := v.keyLocked()
	v.search = strings.TrimSpace(v.searchInput)
	v.page = 1
	key := v.keyLocked()
	v.mu.Unlock()

	if key != prev {
		v.onChange(key)
	}
}

func (v *ListView) keyLocked() note.ListKey {
	return note.NewListKey(v.tag, v.page, v.search)
}
