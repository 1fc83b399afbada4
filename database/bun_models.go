package database

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/uptrace/bun"
)

// currentStateID is the single row of the presenter_state table
const currentStateID = 1

// BunPresenterState represents the presenter_state table for Bun ORM
type BunPresenterState struct {
	bun.BaseModel `bun:"table:presenter_state,alias:ps"`

	ID          int       `bun:"id,pk"`
	CurrentPath string    `bun:"current_path,notnull"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// BunRecentDocument represents the recent_documents table for Bun ORM
type BunRecentDocument struct {
	bun.BaseModel `bun:"table:recent_documents,alias:rd"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ULID      string    `bun:"ulid,notnull,unique"` // Stored as string in DB
	Path      string    `bun:"path,notnull,unique"`
	Name      string    `bun:"name,notnull"`
	PageCount int       `bun:"page_count,notnull"`
	OpenedAt  time.Time `bun:"opened_at,notnull"`
}

// ToRecentDocument converts BunRecentDocument to RecentDocument
func (bd *BunRecentDocument) ToRecentDocument() (*RecentDocument, error) {
	parsedULID, err := ulid.Parse(bd.ULID)
	if err != nil {
		return nil, err
	}

	return &RecentDocument{
		ID:        bd.ID,
		ULID:      parsedULID,
		Path:      bd.Path,
		Name:      bd.Name,
		PageCount: bd.PageCount,
		OpenedAt:  bd.OpenedAt,
	}, nil
}
