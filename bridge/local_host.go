package bridge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalHost reads PDFs straight from the local file system
type LocalHost struct {
	// Root restricts reads to files below it. Empty means any path can be read.
	Root  string
	Store PathStore
}

// NewLocalHost creates a LocalHost, a nil store falls back to a MemoryStore
func NewLocalHost(root string, store PathStore) *LocalHost {
	if store == nil {
		store = NewMemoryStore()
	}
	return &LocalHost{Root: root, Store: store}
}

// LoadPDFBytes reads the whole file at path
func (h *LocalHost) LoadPDFBytes(_ context.Context, path string) ([]byte, error) {
	resolved, err := h.resolve(path)
	if err != nil {
		return nil, err
	}
	Logger.Debug("Loading PDF bytes", "path", resolved)
	return os.ReadFile(resolved)
}

// CurrentPDFPath returns the path stored by SetCurrentPDFPath
func (h *LocalHost) CurrentPDFPath(_ context.Context) (string, bool, error) {
	return h.Store.GetCurrentPDFPath()
}

// SetCurrentPDFPath stores path for the presenter view
func (h *LocalHost) SetCurrentPDFPath(_ context.Context, path string) error {
	if _, err := h.resolve(path); err != nil {
		return err
	}
	Logger.Info("Current PDF changed", "path", path)
	return h.Store.SetCurrentPDFPath(path)
}

// resolve maps path onto the file system, relative paths are taken from Root when one is set
func (h *LocalHost) resolve(path string) (string, error) {
	if h.Root == "" {
		return path, nil
	}

	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(h.Root, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(h.Root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return resolved, nil
}
