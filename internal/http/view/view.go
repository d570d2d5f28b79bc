// Package view renders the HTML pages and the fragments pushed to live
// list sessions.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"notehub/internal/config"
	"notehub/internal/note"
	"notehub/internal/notes"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Metadata is the per-route head information.
type Metadata struct {
	Title       string
	Description string
	URL         string
	SiteName    string
	Type        string
	Image       config.Image
	ImageAlt    string
}

// Page is what every full page template receives.
type Page struct {
	Meta   Metadata
	Site   config.Site
	Notice string
	Data   any
}

// List is the data of the notes list and its live fragment.
type List struct {
	Tag      string
	Tags     []note.Tag
	BasePath string
	Search   string
	Key      note.ListKey
	Result   note.PageResult
	HasData  bool
	Controls notes.Controls
	LiveURL  string
}

type Detail struct {
	Note note.Note
}

type Form struct {
	Values note.Draft
	Errors note.FieldErrors
	Tags   []note.Tag
	// Back is the list the form was opened from.
	Back string
}

var funcs = template.FuncMap{
	"pageHref": func(base, search string, page int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		if search != "" {
			q.Set("search", search)
		}
		return base + "?" + q.Encode()
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

var pageNames = []string{"home", "notes", "note", "create", "notfound", "error"}

type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

func New() *Renderer {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		r.pages[name] = template.Must(template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.tmpl", "templates/partials.tmpl", "templates/"+name+".tmpl"))
	}
	r.fragments = template.Must(template.New("partials.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/partials.tmpl"))
	return r
}

// Render writes a full page with the given status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return errUnknownPage(name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Results renders the list body (pagination and notes) on its own.
func (r *Renderer) Results(l List) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.fragments.ExecuteTemplate(&buf, "results", l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type errUnknownPage string

func (e errUnknownPage) Error() string { return "view: unknown page " + strconv.Quote(string(e)) }
