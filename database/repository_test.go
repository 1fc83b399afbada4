package database

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

func setupTestLogger() {
	Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// exerciseRepository runs the same checks against any backend
func exerciseRepository(t *testing.T, repo Repository) {
	t.Run("Current path starts empty", func(t *testing.T) {
		_, ok, err := repo.GetCurrentPDFPath()
		if err != nil {
			t.Fatalf("GetCurrentPDFPath failed: %v", err)
		}
		if ok {
			t.Error("Expected no current path on a fresh database")
		}
	})

	t.Run("Set and replace current path", func(t *testing.T) {
		if err := repo.SetCurrentPDFPath("/decks/first.pdf"); err != nil {
			t.Fatalf("SetCurrentPDFPath failed: %v", err)
		}
		if err := repo.SetCurrentPDFPath("/decks/second.pdf"); err != nil {
			t.Fatalf("SetCurrentPDFPath failed: %v", err)
		}

		path, ok, err := repo.GetCurrentPDFPath()
		if err != nil || !ok {
			t.Fatalf("Expected a current path, got ok=%v err=%v", ok, err)
		}
		if path != "/decks/second.pdf" {
			t.Errorf("Expected /decks/second.pdf, got %s", path)
		}
	})

	t.Run("Record documents", func(t *testing.T) {
		first, err := repo.RecordDocumentOpened("/decks/keynote.pdf", 12)
		if err != nil {
			t.Fatalf("RecordDocumentOpened failed: %v", err)
		}
		if first.Name != "keynote.pdf" || first.PageCount != 12 {
			t.Errorf("Unexpected document: %+v", first)
		}

		time.Sleep(10 * time.Millisecond)
		if _, err := repo.RecordDocumentOpened("/decks/lightning.pdf", 3); err != nil {
			t.Fatalf("RecordDocumentOpened failed: %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		again, err := repo.RecordDocumentOpened("/decks/keynote.pdf", 14)
		if err != nil {
			t.Fatalf("RecordDocumentOpened failed: %v", err)
		}
		if again.ULID != first.ULID {
			t.Errorf("Expected ULID to be kept on reopen, got %s and %s", first.ULID, again.ULID)
		}
		if again.PageCount != 14 {
			t.Errorf("Expected page count to be updated to 14, got %d", again.PageCount)
		}

		recent, err := repo.GetRecentDocuments(10)
		if err != nil {
			t.Fatalf("GetRecentDocuments failed: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("Expected 2 recent documents, got %d", len(recent))
		}
		if recent[0].Path != "/decks/keynote.pdf" {
			t.Errorf("Expected most recently opened first, got %s", recent[0].Path)
		}

		limited, err := repo.GetRecentDocuments(1)
		if err != nil {
			t.Fatalf("GetRecentDocuments failed: %v", err)
		}
		if len(limited) != 1 {
			t.Errorf("Expected limit to apply, got %d documents", len(limited))
		}

		byULID, err := repo.GetDocumentByULID(first.ULID.String())
		if err != nil {
			t.Fatalf("GetDocumentByULID failed: %v", err)
		}
		if byULID.Path != "/decks/keynote.pdf" {
			t.Errorf("Expected keynote.pdf, got %s", byULID.Path)
		}

		if _, err := repo.GetDocumentByULID("01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrDocumentNotFound) {
			t.Errorf("Expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("Prune history", func(t *testing.T) {
		deleted, err := repo.DeleteDocumentsOpenedBefore(time.Hour)
		if err != nil {
			t.Fatalf("DeleteDocumentsOpenedBefore failed: %v", err)
		}
		if deleted != 0 {
			t.Errorf("Expected nothing older than an hour, deleted %d", deleted)
		}

		time.Sleep(10 * time.Millisecond)
		deleted, err = repo.DeleteDocumentsOpenedBefore(0)
		if err != nil {
			t.Fatalf("DeleteDocumentsOpenedBefore failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("Expected 2 documents pruned, got %d", deleted)
		}

		recent, err := repo.GetRecentDocuments(10)
		if err != nil {
			t.Fatalf("GetRecentDocuments failed: %v", err)
		}
		if len(recent) != 0 {
			t.Errorf("Expected empty history, got %d", len(recent))
		}
	})
}
