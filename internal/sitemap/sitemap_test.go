package sitemap

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	links := []string{"https://x.test/docs/a.html", "https://x.test/docs/b.html?q=1&r=2"}

	data, err := Build(links)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML header: %q", data)
	}
	if !strings.Contains(string(data), "&amp;r=2") {
		t.Errorf("ampersand not escaped: %q", data)
	}

	var set URLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if set.XMLNS != Namespace {
		t.Errorf("xmlns = %q, want %q", set.XMLNS, Namespace)
	}
	if len(set.URLs) != 2 {
		t.Fatalf("got %d entries, want 2", len(set.URLs))
	}
	for i, u := range set.URLs {
		if u.Loc != links[i] || u.Priority != "0.8" {
			t.Errorf("entry %d = %+v", i, u)
		}
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		seed string
		want string
	}{
		{"cesium-api-full.html", "cesium-api-full-sitemap.xml"},
		{filepath.Join("docs", "api.html"), filepath.Join("docs", "api-sitemap.xml")},
		{"https://x.test/docs/index.html?v=1", "index-sitemap.xml"},
		{"https://x.test/", "x.test-sitemap.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			if got := Path(tt.seed); got != tt.want {
				t.Errorf("Path(%q) = %q, want %q", tt.seed, got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.html")

	out, err := Write(seed, []string{"https://x.test/a.html"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if out != strings.TrimSuffix(seed, ".html")+"-sitemap.xml" {
		t.Errorf("Write() path = %q", out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<loc>https://x.test/a.html</loc>") {
		t.Errorf("sitemap = %q", data)
	}
}
