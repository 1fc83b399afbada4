// Package bridge provides the host commands the presenter relies on: reading a
// PDF's bytes by path and remembering which PDF is currently being presented.
package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

var (
	// ErrOutsideRoot is returned when a path escapes the configured document root
	ErrOutsideRoot = errors.New("path is outside the document root")

	// ErrNoCurrentPath is returned when no PDF has been selected yet
	ErrNoCurrentPath = errors.New("no current PDF path")
)

// Host is the host application bridge
type Host interface {
	// LoadPDFBytes returns the raw bytes of the file at path
	LoadPDFBytes(ctx context.Context, path string) ([]byte, error)

	// CurrentPDFPath returns the selected PDF path, ok is false when none is set
	CurrentPDFPath(ctx context.Context) (path string, ok bool, err error)

	// SetCurrentPDFPath selects the PDF shown by the presenter view
	SetCurrentPDFPath(ctx context.Context, path string) error
}

// PathStore keeps the current PDF path
type PathStore interface {
	GetCurrentPDFPath() (string, bool, error)
	SetCurrentPDFPath(path string) error
}

// MemoryStore is a PathStore that lives as long as the process
type MemoryStore struct {
	mu   sync.Mutex
	path *string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// GetCurrentPDFPath returns the stored path
func (m *MemoryStore) GetCurrentPDFPath() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path == nil {
		return "", false, nil
	}
	return *m.path, true, nil
}

// SetCurrentPDFPath replaces the stored path
func (m *MemoryStore) SetCurrentPDFPath(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = &path
	return nil
}
