package webapp

import (
	"fmt"
	"testing"
)

func TestPageFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "*webapp.ViewerPage"},
		{"/recent", "*webapp.RecentPage"},
		{"/about", "*webapp.AboutPage"},
		{"/slides", "*webapp.NotFoundPage"},
	}

	for _, tt := range tests {
		got := pageFor(tt.path)
		if name := typeName(got); name != tt.want {
			t.Errorf("pageFor(%q) = %s, want %s", tt.path, name, tt.want)
		}
	}

	if page, ok := pageFor("/slides").(*NotFoundPage); !ok || page.Path != "/slides" {
		t.Errorf("Expected the missing path to be kept, got %+v", page)
	}
}

func TestNotFoundPageRenders(t *testing.T) {
	if (&NotFoundPage{Path: "/slides"}).Render() == nil {
		t.Error("Render should return a valid UI component")
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		current, href string
		want          bool
	}{
		{"/", "/", true},
		{"/recent", "/", false},
		{"/recent", "/recent", true},
		{"/recent/1", "/recent", true},
		{"/recently", "/recent", false},
	}
	for _, tt := range tests {
		if got := isActive(tt.current, tt.href); got != tt.want {
			t.Errorf("isActive(%q, %q) = %v, want %v", tt.current, tt.href, got, tt.want)
		}
	}
}

func TestNavLabels(t *testing.T) {
	if got := versionLabel("v1.2.0", ""); got != "v1.2.0" {
		t.Errorf("Expected bare version, got %q", got)
	}
	if got := versionLabel("v1.2.0", "2024-05-01"); got != "v1.2.0 (2024-05-01)" {
		t.Errorf("Unexpected version label %q", got)
	}
	if got := presentingLabel("deck.pdf", 3); got != "▶ deck.pdf, page 3" {
		t.Errorf("Unexpected presenting label %q", got)
	}
	if got := presentingLabel("deck.pdf", 0); got != "▶ deck.pdf" {
		t.Errorf("Unexpected presenting label %q", got)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
