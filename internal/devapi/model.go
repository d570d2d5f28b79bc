// Package devapi is a local stand-in for the remote notes service. It
// speaks the same HTTP contract as the client in internal/notehub and
// stores notes in Postgres.
package devapi

import (
	"time"
)

// Note is the stored row. IdempotencyKey is set when the create request
// carried an Idempotency-Key header.
type Note struct {
	ID             uint64    `gorm:"primaryKey"`
	Title          string    `gorm:"type:varchar(50);not null"`
	Content        string    `gorm:"type:text;not null;default:''"`
	Tag            string    `gorm:"type:text;index;not null"`
	IdempotencyKey *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"not null;default:now()"`
	UpdatedAt      time.Time `gorm:"not null;default:now()"`
}

// Models lists the tables AutoMigrate creates.
func Models() []any {
	return []any{&Note{}}
}

// Indexes are applied after migration.
var Indexes = []string{
	`create unique index if not exists uq_notes_idem on notes(idempotency_key) where idempotency_key is not null;`,
	`create index if not exists idx_notes_created on notes(created_at desc, id desc);`,
	`create index if not exists idx_notes_tag_created on notes(tag, created_at desc);`,
}
