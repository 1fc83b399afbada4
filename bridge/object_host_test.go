package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeObjectStore answers the path style S3 requests the host makes for bucket "decks"
func fakeObjectStore(t *testing.T, objects map[string][]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		bucket, key, _ := strings.Cut(path, "/")
		if bucket != "decks" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if key == "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		data, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>` + key + `</Key><BucketName>decks</BucketName></Error>`))
			}
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("ETag", `"0123456789abcdef"`)
		w.Header().Set("Last-Modified", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(data)
		}
	}))
}

func newTestObjectHost(t *testing.T, server *httptest.Server) *ObjectStoreHost {
	t.Helper()
	host, err := NewObjectStoreHost(context.Background(), ObjectStoreConfig{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "test",
		SecretKey: "testsecret",
		Bucket:    "decks",
		Region:    "us-east-1",
	}, nil)
	if err != nil {
		t.Fatalf("NewObjectStoreHost failed: %v", err)
	}
	return host
}

func TestObjectStoreHost(t *testing.T) {
	server := fakeObjectStore(t, map[string][]byte{"talks/q3.pdf": []byte("%PDF-1.4 object")})
	defer server.Close()
	host := newTestObjectHost(t, server)
	ctx := context.Background()

	data, err := host.LoadPDFBytes(ctx, "/talks/q3.pdf")
	if err != nil {
		t.Fatalf("LoadPDFBytes failed: %v", err)
	}
	if string(data) != "%PDF-1.4 object" {
		t.Errorf("Unexpected bytes: %q", data)
	}

	if _, err := host.LoadPDFBytes(ctx, "talks/missing.pdf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}

	if _, ok, _ := host.CurrentPDFPath(ctx); ok {
		t.Error("Expected no current PDF")
	}
	if err := host.SetCurrentPDFPath(ctx, "talks/q3.pdf"); err != nil {
		t.Fatalf("SetCurrentPDFPath failed: %v", err)
	}
	if path, ok, err := host.CurrentPDFPath(ctx); err != nil || !ok || path != "talks/q3.pdf" {
		t.Errorf("Expected talks/q3.pdf, got %q %v %v", path, ok, err)
	}

	if err := host.SetCurrentPDFPath(ctx, "talks/missing.pdf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist for a missing object, got %v", err)
	}
}

func TestObjectStoreHostMissingBucket(t *testing.T) {
	server := fakeObjectStore(t, nil)
	defer server.Close()

	_, err := NewObjectStoreHost(context.Background(), ObjectStoreConfig{
		Endpoint: strings.TrimPrefix(server.URL, "http://"),
		Bucket:   "other",
		Region:   "us-east-1",
	}, nil)
	if err == nil {
		t.Error("Expected an error for a missing bucket")
	}

	if _, err := NewObjectStoreHost(context.Background(), ObjectStoreConfig{}, nil); err == nil {
		t.Error("Expected an error without endpoint and bucket")
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr error
	}{
		{"talks/q3.pdf", "talks/q3.pdf", nil},
		{"/talks/q3.pdf", "talks/q3.pdf", nil},
		{`talks\q3.pdf`, "talks/q3.pdf", nil},
		{"../secrets.pdf", "", ErrOutsideRoot},
		{"talks/../../secrets.pdf", "", ErrOutsideRoot},
		{"", "", os.ErrNotExist},
	}

	for _, tt := range tests {
		got, err := objectKey(tt.path)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("objectKey(%q): expected %v, got %v", tt.path, tt.wantErr, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("objectKey(%q) = %q, %v, want %q", tt.path, got, err, tt.want)
		}
	}
}
