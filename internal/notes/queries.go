package notes

import (
	"context"

	"notehub/internal/note"
	"notehub/internal/notehub"
	"notehub/internal/query"
)

// API is the part of the notes service the UI needs.
type API interface {
	ListNotes(ctx context.Context, p notehub.ListParams) (note.PageResult, error)
	GetNote(ctx context.Context, id note.ID) (note.Note, error)
	CreateNote(ctx context.Context, d note.Draft) (note.Note, error)
}

// Queries holds the read caches for lists and single notes.
type Queries struct {
	API   API
	Lists *query.Cache[note.ListKey, note.PageResult]
	Notes *query.Cache[note.NoteKey, note.Note]
}

func NewQueries(api API, opts query.Options) *Queries {
	return &Queries{
		API: api,
		Lists: query.New(func(ctx context.Context, k note.ListKey) (note.PageResult, error) {
			return api.ListNotes(ctx, notehub.ListParamsFor(k))
		}, opts),
		Notes: query.New(func(ctx context.Context, k note.NoteKey) (note.Note, error) {
			return api.GetNote(ctx, k.ID)
		}, opts),
	}
}

// Invalidate marks every cached slot of kind stale.
func (q *Queries) Invalidate(kind string) {
	q.Lists.Invalidate(kind)
	q.Notes.Invalidate(kind)
}

// Run runs the cache janitors until ctx is done.
func (q *Queries) Run(ctx context.Context) {
	go q.Notes.Run(ctx)
	q.Lists.Run(ctx)
}
