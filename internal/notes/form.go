package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"notehub/internal/note"
)

type FormState int

const (
	Editing FormState = iota
	Validating
	Submitting
	Closed
)

func (s FormState) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("FormState(%d)", int(s))
}

var (
	ErrBusy   = errors.New("form is already submitting")
	ErrClosed = errors.New("form is closed")
)

// SubmitError is a create that the notes service rejected or that never
// reached it. The form stays open.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return "could not create note: " + e.Err.Error() }

func (e *SubmitError) Unwrap() error { return e.Err }

type Creator interface {
	CreateNote(ctx context.Context, d note.Draft) (note.Note, error)
}

type Invalidator interface {
	Invalidate(kind string)
}

// Form creates one note. Values and field errors are kept across failed
// submits so the user can correct them.
type Form struct {
	create     Creator
	invalidate Invalidator

	mu      sync.Mutex
	state   FormState
	values  note.Draft
	errs    note.FieldErrors
	lastErr error
	created note.Note
}

func NewForm(c Creator, inv Invalidator) *Form {
	return &Form{create: c, invalidate: inv, values: note.NewDraft(), errs: note.FieldErrors{}}
}

func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Values() note.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// FieldErrors returns a copy of the current field errors.
func (f *Form) FieldErrors() note.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(note.FieldErrors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Err is the last submit failure, if any.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Created is the note from a successful submit.
func (f *Form) Created() note.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Submit validates d and, when valid, creates it. On success the notes
// lists are invalidated and the form is closed. A validation failure
// returns *note.ValidationError; a create failure returns *SubmitError.
func (f *Form) Submit(ctx context.Context, d note.Draft) (note.Note, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting, Validating:
		f.mu.Unlock()
		return note.Note{}, ErrBusy
	case Closed:
		f.mu.Unlock()
		return note.Note{}, ErrClosed
	}
	f.values = d
	f.state = Validating
	errs := note.Validate(d)
	f.errs = errs
	if len(errs) > 0 {
		f.state = Editing
		f.mu.Unlock()
		return note.Note{}, &note.ValidationError{Fields: errs}
	}
	f.state = Submitting
	f.lastErr = nil
	f.mu.Unlock()

	n, err := f.create.CreateNote(ctx, d)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Editing
		f.lastErr = &SubmitError{Err: err}
		return note.Note{}, f.lastErr
	}
	f.state = Closed
	f.created = n
	if f.invalidate != nil {
		f.invalidate.Invalidate(note.KindNotes)
	}
	return n, nil
}
