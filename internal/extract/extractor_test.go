package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		base    string
		root    string
		element string
		want    []string
		wantErr error
	}{
		{
			name: "dedup, fragment stripped, empty dropped",
			html: `<html><body>
				<a href="/a.html">A</a>
				<a href="/a.html">A again</a>
				<a href="/b.html#frag">B</a>
				<a href="">empty</a>
			</body></html>`,
			base: "https://x.test/docs",
			want: []string{"https://x.test/docs/a.html", "https://x.test/docs/b.html"},
		},
		{
			name: "relative paths resolve against document directory",
			html: `<body><a href="Viewer.html">V</a><a href="../up.html">U</a><a href="sub/c.html?x=1">C</a></body>`,
			base: "https://x.test/docs/index.html?lang=en",
			want: []string{
				"https://x.test/docs/Viewer.html",
				"https://x.test/up.html",
				"https://x.test/docs/sub/c.html?x=1",
			},
		},
		{
			name: "absolute and protocol-relative",
			html: `<body><a href="https://other.test/p">P</a><a href="//cdn.test/q.html">Q</a></body>`,
			base: "https://x.test/docs/",
			want: []string{"https://other.test/p", "https://cdn.test/q.html"},
		},
		{
			name: "root-relative already inside base directory",
			html: `<body><a href="/docs/a.html">A</a><a href="a.html">A rel</a></body>`,
			base: "https://x.test/docs/index.html",
			want: []string{"https://x.test/docs/a.html"},
		},
		{
			name: "missing href and non-http schemes dropped",
			html: `<body><a name="top">T</a><a href="mailto:me@x.test">M</a><a href="javascript:void(0)">J</a><a href="#only">F</a><a href="ok.html">OK</a></body>`,
			base: "https://x.test/",
			want: []string{"https://x.test/ok.html"},
		},
		{
			name:    "root selector scopes the search",
			html:    `<body><nav><a href="nav.html">N</a></nav><div id="toc"><a href="one.html">1</a><a href="two.html">2</a></div></body>`,
			base:    "https://x.test/",
			root:    "#toc",
			element: "a",
			want:    []string{"https://x.test/one.html", "https://x.test/two.html"},
		},
		{
			name:    "custom element selector",
			html:    `<body><a class="api" href="api.html">A</a><a href="other.html">O</a></body>`,
			base:    "https://x.test/",
			element: "a.api",
			want:    []string{"https://x.test/api.html"},
		},
		{
			name:    "no links",
			html:    `<html><body>No links here</body></html>`,
			base:    "https://x.test/",
			wantErr: ErrNoLinks,
		},
		{
			name:    "relative links without base are dropped",
			html:    `<body><a href="rel.html">R</a></body>`,
			wantErr: ErrNoLinks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExtractor(tt.root, tt.element)
			got, err := ex.Extract(tt.html, tt.base)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %d links %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("link[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractor_NoDuplicatesNoFragments(t *testing.T) {
	var b strings.Builder
	b.WriteString("<body>")
	for _, href := range []string{"a.html#x", "a.html#y", "a.html", "/a.html", "b.html", "./b.html", "b.html#", "c/../b.html"} {
		b.WriteString(`<a href="` + href + `">l</a>`)
	}
	b.WriteString("</body>")

	links, err := NewExtractor("", "").Extract(b.String(), "https://x.test/")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	seen := make(map[string]bool)
	for _, l := range links {
		if strings.Contains(l, "#") {
			t.Errorf("link %q contains a fragment", l)
		}
		if seen[l] {
			t.Errorf("duplicate link %q", l)
		}
		seen[l] = true
	}
	if len(links) != 2 {
		t.Errorf("got %v, want 2 distinct links", links)
	}
}

func TestExtractor_SkipHandler(t *testing.T) {
	var skipped []string
	ex := NewExtractor("body", "a", WithSkipHandler(func(href string, _ error) {
		skipped = append(skipped, href)
	}))

	_, err := ex.Extract(`<body><a href="rel.html">R</a><a href="https://x.test/abs">A</a></body>`, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "rel.html" {
		t.Errorf("skipped = %v, want [rel.html]", skipped)
	}
}

func TestBaseDirectory(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://example.com/path/file.html?query=1", "https://example.com/path/"},
		{"https://example.com/path", "https://example.com/path/"},
		{"https://example.com/path/", "https://example.com/path/"},
		{"https://example.com", "https://example.com/"},
		{"https://example.com/index.html#top", "https://example.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			dir, err := BaseDirectory(tt.base)
			if err != nil {
				t.Fatalf("BaseDirectory: %v", err)
			}
			if dir.String() != tt.want {
				t.Errorf("BaseDirectory(%q) = %q, want %q", tt.base, dir.String(), tt.want)
			}
		})
	}

	if _, err := BaseDirectory("docs/index.html"); err == nil {
		t.Error("expected error for relative base")
	}
}
