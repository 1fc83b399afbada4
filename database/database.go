package database

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// ErrDocumentNotFound is returned when no recent document matches the lookup
var ErrDocumentNotFound = errors.New("document not found")

// RecentDocument is a PDF that has been opened in the presenter
type RecentDocument struct {
	ID        int64     `json:"id"`
	ULID      ulid.ULID `json:"ulid"` // short id used in URLs
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	PageCount int       `json:"pageCount"`
	OpenedAt  time.Time `json:"openedAt"`
}

// Repository defines database operations
type Repository interface {
	Close() error
	// Presenter state, this also makes a Repository a bridge.PathStore
	GetCurrentPDFPath() (string, bool, error)
	SetCurrentPDFPath(path string) error
	// Document history
	RecordDocumentOpened(path string, pageCount int) (*RecentDocument, error)
	GetRecentDocuments(limit int) ([]RecentDocument, error)
	GetDocumentByULID(id string) (*RecentDocument, error)
	DeleteDocumentsOpenedBefore(age time.Duration) (int, error)
}

// documentName is the display name of a PDF, its file name
func documentName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
