package webapp

import (
	"testing"
)

func TestDatabaseDisplay(t *testing.T) {
	tests := map[string]string{
		"postgres":    "PostgreSQL",
		"cockroachdb": "CockroachDB",
		"sqlite":      "SQLite",
		"ephemeral":   "Ephemeral PostgreSQL",
		"mongodb":     "mongodb",
	}
	for dbType, want := range tests {
		if got := (AboutInfo{DatabaseType: dbType}).databaseDisplay(); got != want {
			t.Errorf("databaseDisplay(%q) = %q, want %q", dbType, got, want)
		}
	}
}

func TestRendererDisplay(t *testing.T) {
	tests := map[string]string{
		"pdfium": "PDFium (WebAssembly)",
		"fitz":   "MuPDF (go-fitz)",
		"stub":   "stub",
	}
	for renderer, want := range tests {
		if got := (AboutInfo{Renderer: renderer}).rendererDisplay(); got != want {
			t.Errorf("rendererDisplay(%q) = %q, want %q", renderer, got, want)
		}
	}
}

func TestRetentionDisplay(t *testing.T) {
	tests := map[int]string{
		-1: "Kept forever",
		0:  "Kept forever",
		1:  "1 day",
		30: "30 days",
	}
	for days, want := range tests {
		if got := (AboutInfo{RetentionDays: days}).retentionDisplay(); got != want {
			t.Errorf("retentionDisplay(%d) = %q, want %q", days, got, want)
		}
	}
}

func TestSourceDisplay(t *testing.T) {
	info := AboutInfo{}
	if got := info.sourceDisplay(); got != "Unrestricted" {
		t.Errorf("Expected Unrestricted, got %q", got)
	}

	info.DocumentRoot = "/srv/slides"
	if got := info.sourceDisplay(); got != "/srv/slides" {
		t.Errorf("Expected /srv/slides, got %q", got)
	}

	info.ObjectStore = "decks"
	if got := info.sourceDisplay(); got != "Object store bucket decks" {
		t.Errorf("Expected the bucket to win over the document root, got %q", got)
	}
}

func TestAboutSections(t *testing.T) {
	info := AboutInfo{
		Version:        "v1.0.0",
		Renderer:       "fitz",
		DatabaseType:   "sqlite",
		DisplayScale:   1.5,
		ThumbnailScale: 0.5,
		Presenters:     2,
	}

	rows := map[string]string{}
	for _, section := range info.Sections() {
		for _, row := range section.Rows {
			rows[row[0]] = row[1]
		}
	}

	want := map[string]string{
		"Version":                "v1.0.0",
		"Renderer":               "MuPDF (go-fitz)",
		"Page scale":             "1.5x",
		"Thumbnail scale":        "0.5x",
		"Open presenter windows": "2",
	}
	for label, value := range want {
		if rows[label] != value {
			t.Errorf("%s = %q, want %q", label, rows[label], value)
		}
	}
}
