package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalHostLoadPDFBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slides.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	host := NewLocalHost("", nil)
	data, err := host.LoadPDFBytes(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadPDFBytes failed: %v", err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Errorf("Unexpected bytes: %q", data)
	}

	_, err = host.LoadPDFBytes(context.Background(), filepath.Join(dir, "missing.pdf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLocalHostRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "talk.pdf"), []byte("pdf"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	host := NewLocalHost(root, nil)

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"relative inside root", "talk.pdf", nil},
		{"absolute inside root", filepath.Join(root, "talk.pdf"), nil},
		{"relative escape", "../talk.pdf", ErrOutsideRoot},
		{"absolute outside", filepath.Join(filepath.Dir(root), "other.pdf"), ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := host.LoadPDFBytes(context.Background(), tt.path)
			if tt.wantErr == nil && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLocalHostCurrentPath(t *testing.T) {
	ctx := context.Background()
	host := NewLocalHost("", NewMemoryStore())

	if _, ok, err := host.CurrentPDFPath(ctx); err != nil || ok {
		t.Fatalf("Expected no current path, got ok=%v err=%v", ok, err)
	}

	if err := host.SetCurrentPDFPath(ctx, "/decks/a.pdf"); err != nil {
		t.Fatalf("SetCurrentPDFPath failed: %v", err)
	}

	path, ok, err := host.CurrentPDFPath(ctx)
	if err != nil || !ok || path != "/decks/a.pdf" {
		t.Errorf("Expected /decks/a.pdf, got %q ok=%v err=%v", path, ok, err)
	}
}

func TestLocalHostSetCurrentPathOutsideRoot(t *testing.T) {
	host := NewLocalHost(t.TempDir(), nil)
	err := host.SetCurrentPDFPath(context.Background(), "../../etc/passwd")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Expected ErrOutsideRoot, got %v", err)
	}
}

// fakeBackend serves the host endpoints the way engine does
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	current := ""

	mux := http.NewServeMux()
	mux.HandleFunc("/api/pdf/bytes", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("path") {
		case "/decks/a b.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF remote"))
		case "/secret.pdf":
			http.Error(w, "forbidden", http.StatusForbidden)
		case "/broken.pdf":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
	mux.HandleFunc("/api/pdf/current", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if current == "" {
				http.Error(w, "not set", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(CurrentPathPayload{Path: current})
		case http.MethodPut:
			var payload CurrentPathPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			current = payload.Path
			w.WriteHeader(http.StatusNoContent)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPHostLoadPDFBytes(t *testing.T) {
	server := fakeBackend(t)
	host := NewHTTPHost(server.URL + "/")
	ctx := context.Background()

	data, err := host.LoadPDFBytes(ctx, "/decks/a b.pdf")
	if err != nil {
		t.Fatalf("LoadPDFBytes failed: %v", err)
	}
	if string(data) != "%PDF remote" {
		t.Errorf("Unexpected bytes: %q", data)
	}

	if _, err := host.LoadPDFBytes(ctx, "/missing.pdf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
	if _, err := host.LoadPDFBytes(ctx, "/secret.pdf"); !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("Expected ErrOutsideRoot, got %v", err)
	}
	if _, err := host.LoadPDFBytes(ctx, "/broken.pdf"); err == nil {
		t.Error("Expected error for server failure")
	}
}

func TestHTTPHostCurrentPath(t *testing.T) {
	server := fakeBackend(t)
	host := NewHTTPHost(server.URL)
	ctx := context.Background()

	if _, ok, err := host.CurrentPDFPath(ctx); err != nil || ok {
		t.Fatalf("Expected no current path, got ok=%v err=%v", ok, err)
	}

	if err := host.SetCurrentPDFPath(ctx, "/decks/b.pdf"); err != nil {
		t.Fatalf("SetCurrentPDFPath failed: %v", err)
	}

	path, ok, err := host.CurrentPDFPath(ctx)
	if err != nil || !ok || path != "/decks/b.pdf" {
		t.Errorf("Expected /decks/b.pdf, got %q ok=%v err=%v", path, ok, err)
	}
}
