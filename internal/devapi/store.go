package devapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"notehub/internal/note"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("not found")

const MaxPerPage = 50

type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	Tag     string
}

// normalize clamps paging to 1 <= page and 1 <= perPage <= MaxPerPage.
func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = note.PageSize
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Tag = strings.TrimSpace(q.Tag)
	if q.Tag == note.TagAll {
		q.Tag = ""
	}
	return q
}

// Repository is what the handlers need from storage.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Note, int64, error)
	Get(ctx context.Context, id uint64) (Note, error)
	Create(ctx context.Context, d note.Draft, idem *string) (Note, error)
}

type Store struct {
	DB *gorm.DB
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]Note, int64, error) {
	q = q.normalize()

	tx := s.DB.WithContext(ctx).Model(&Note{})
	if q.Tag != "" {
		tx = tx.Where("tag = ?", q.Tag)
	}
	if q.Search != "" {
		like := "%" + escapeLike(q.Search) + "%"
		tx = tx.Where("(title ILIKE ? OR content ILIKE ?)", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []Note
	err := tx.Order("created_at desc").Order("id desc").
		Limit(q.PerPage).
		Offset((q.Page - 1) * q.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *Store) Get(ctx context.Context, id uint64) (Note, error) {
	var n Note
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return n, nil
}

// Create inserts a note. With an idempotency key a repeated request
// returns the note created by the first one.
func (s *Store) Create(ctx context.Context, d note.Draft, idem *string) (Note, error) {
	var out Note

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n := newRow(d, idem, time.Now())

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&n)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			out = n
			return nil
		}

		// conflict on the idempotency key: replay the earlier result
		if idem == nil {
			return errors.New("note insert affected no rows")
		}
		return tx.Where("idempotency_key = ?", *idem).First(&out).Error
	})

	return out, err
}

// newRow stores the draft exactly as validated.
func newRow(d note.Draft, idem *string, now time.Time) Note {
	return Note{
		Title:          d.Title,
		Content:        d.Content,
		Tag:            string(d.Tag),
		IdempotencyKey: idem,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
