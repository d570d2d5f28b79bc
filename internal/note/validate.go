package note

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	TitleMin   = 3
	TitleMax   = 50
	ContentMax = 500
)

// FieldErrors maps a form field name to its message. Empty means valid.
type FieldErrors map[string]string

// ValidationError wraps FieldErrors so they travel through error returns.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid note: " + strings.Join(parts, "; ")
}

// Validate checks a draft against the form rules. Each field reports at
// most one message, the first rule it fails.
func Validate(d Draft) FieldErrors {
	errs := FieldErrors{}

	switch n := utf8.RuneCountInString(d.Title); {
	case n == 0:
		errs["title"] = "Title is required."
	case n < TitleMin:
		errs["title"] = "Title must have at least 3 symbols."
	case n > TitleMax:
		errs["title"] = "Title length more then 50 symbols."
	}

	if utf8.RuneCountInString(d.Content) > ContentMax {
		errs["content"] = "Content is too long."
	}

	switch {
	case d.Tag == "":
		errs["tag"] = "Tag is required."
	case !d.Tag.Valid():
		errs["tag"] = "Tag must be one of: " + tagNames() + "."
	}

	return errs
}

// Check is Validate as an error.
func Check(d Draft) error {
	if errs := Validate(d); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
