package webapp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestHandlerRoutes tests that all expected routes are registered
func TestHandlerRoutes(t *testing.T) {
	handler := Handler()

	tests := []struct {
		name string
		path string
	}{
		{
			name: "Viewer page",
			path: "/",
		},
		{
			name: "Presenter page",
			path: "/present",
		},
		{
			name: "Recent documents page",
			path: "/recent",
		},
		{
			name: "About page",
			path: "/about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code == http.StatusNotFound {
				t.Errorf("Route %s returned 404 Not Found - route may not be registered", tt.path)
			}

			contentType := rec.Header().Get("Content-Type")
			if !strings.Contains(contentType, "text/html") && rec.Code == http.StatusOK {
				t.Logf("Note: Route %s returned status %d with Content-Type: %s", tt.path, rec.Code, contentType)
			}
		})
	}
}

// TestHandlerLoadsConfig checks the page pulls in config.js for the API URL
func TestHandlerLoadsConfig(t *testing.T) {
	handler := Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "/config.js") {
		t.Error("Expected the page to load /config.js")
	}
	if !strings.Contains(body, "pdfpresenter") {
		t.Error("Expected the app title in the page")
	}
}

func TestBuildAPIURLServerSide(t *testing.T) {
	// Outside the browser there is no config, so URLs stay relative
	if got := BuildAPIURL("/api/pdf/page"); got != "/api/pdf/page" {
		t.Errorf("BuildAPIURL() = %s, want /api/pdf/page", got)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  int
	}{
		{"below first", 0, 5, 1},
		{"negative", -3, 5, 1},
		{"in range", 3, 5, 3},
		{"past last", 9, 5, 5},
		{"unknown total", 9, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampPage(tt.page, tt.total); got != tt.want {
				t.Errorf("clampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
			}
		})
	}
}

func TestNavigationDelta(t *testing.T) {
	tests := []struct {
		key       string
		wantDelta int
		wantOK    bool
	}{
		{"ArrowRight", 1, true},
		{"PageDown", 1, true},
		{" ", 1, true},
		{"ArrowLeft", -1, true},
		{"PageUp", -1, true},
		{"Backspace", -1, true},
		{"q", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			delta, ok := navigationDelta(tt.key)
			if delta != tt.wantDelta || ok != tt.wantOK {
				t.Errorf("navigationDelta(%q) = %d, %v, want %d, %v", tt.key, delta, ok, tt.wantDelta, tt.wantOK)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	if got := apiErrorMessage(404, `{"error":"no PDF has been selected"}`); got != "no PDF has been selected" {
		t.Errorf("Expected the backend message, got %q", got)
	}
	if got := apiErrorMessage(502, `not json`); got != "Request failed with status: 502" {
		t.Errorf("Expected a status message, got %q", got)
	}
}

func TestViewerLink(t *testing.T) {
	if got := viewerLink("talks/q3 review.pdf"); got != "/?path=talks%2Fq3+review.pdf" {
		t.Errorf("viewerLink() = %s", got)
	}
	if got := pageCountLabel(1); got != "1 page" {
		t.Errorf("pageCountLabel(1) = %s", got)
	}
	if got := pageCountLabel(12); got != "12 pages" {
		t.Errorf("pageCountLabel(12) = %s", got)
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base, protocol, host string
		want                 string
	}{
		{"", "http:", "localhost:8000", "ws://localhost:8000/api/presenter/events"},
		{"", "https:", "slides.example.com", "wss://slides.example.com/api/presenter/events"},
		{"http://backend:8000", "https:", "ignored", "ws://backend:8000/api/presenter/events"},
		{"https://api.example.com", "http:", "ignored", "wss://api.example.com/api/presenter/events"},
	}

	for _, tt := range tests {
		if got := websocketURL(tt.base, "/api/presenter/events", tt.protocol, tt.host); got != tt.want {
			t.Errorf("websocketURL(%q, %q, %q) = %q, want %q", tt.base, tt.protocol, tt.host, got, tt.want)
		}
	}
}

func TestConfigScript(t *testing.T) {
	script := ConfigScript("http://backend:8000", 7)
	if !strings.Contains(script, `apiURL: "http://backend:8000"`) {
		t.Errorf("Expected the API URL in the script, got %s", script)
	}
	if !strings.Contains(script, "recentDocumentCount: 7") {
		t.Errorf("Expected the recent document count in the script, got %s", script)
	}

	// quotes can't break out of the string literal
	if script := ConfigScript(`x"; alert(1); "`, 1); !strings.Contains(script, `apiURL: "x\"; alert(1); \""`) {
		t.Errorf("Expected the API URL to be escaped, got %s", script)
	}
}
