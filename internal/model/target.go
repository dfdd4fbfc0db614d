package model

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// DefaultResourceExtension is the extension every downloaded document is
// normalized to when its URL path carries no extension or a different one.
const DefaultResourceExtension = ".html"

// indexName is used for URL paths that name a directory ("/docs/").
const indexName = "index"

// PathConfig controls how destination paths are derived from source URLs.
//
// Example:
//
//	cfg := &PathConfig{OutputDirectory: "files", ResourceExtension: ".html"}
//	target, _ := NewTarget("https://x.test/docs/c", cfg)
//	// target.DestinationPath = "files/docs/c.html"
type PathConfig struct {
	// OutputDirectory is the root every destination path lives under.
	OutputDirectory string

	// ResourceExtension is the expected extension of downloaded files,
	// including the leading dot. Defaults to DefaultResourceExtension.
	ResourceExtension string
}

// Target is a single download unit: one source URL materialized to one
// local file. Targets are immutable once created.
type Target struct {
	// SourceURL is the absolute URL to fetch.
	SourceURL string

	// DestinationPath is the local file the body is streamed into.
	DestinationPath string
}

// NewTarget builds a Target for rawURL, deriving its destination path.
//
// Returns an error if rawURL is not an absolute URL.
func NewTarget(rawURL string, cfg *PathConfig) (Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return Target{}, fmt.Errorf("not an absolute URL: %q", rawURL)
	}

	return Target{
		SourceURL:       u.String(),
		DestinationPath: DestinationPath(u, cfg),
	}, nil
}

// DestinationPath maps a URL to its local file path under cfg.OutputDirectory.
//
// The mapping is a pure function of the URL path and the configuration, so
// the same URL always lands on the same file:
//   - The path is cleaned as a rooted path, so ".." segments can never
//     escape the output directory
//   - Directory-like paths ("", "/", "/docs/") map to an "index" file
//   - If the extension is missing or differs from the resource extension,
//     the resource extension is appended
//
// Example:
//
//	DestinationPath(mustParse("https://x.test/a/b"), cfg)      // files/a/b.html
//	DestinationPath(mustParse("https://x.test/a/b.html"), cfg) // files/a/b.html
//	DestinationPath(mustParse("https://x.test/a/b.js"), cfg)   // files/a/b.js.html
//	DestinationPath(mustParse("https://x.test/a/"), cfg)       // files/a/index.html
func DestinationPath(u *url.URL, cfg *PathConfig) string {
	ext := cfg.extension()

	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += indexName
	}
	p = path.Clean("/" + p)

	if path.Ext(p) != ext {
		p += ext
	}

	return filepath.Join(cfg.OutputDirectory, filepath.FromSlash(p))
}

func (c *PathConfig) extension() string {
	if c.ResourceExtension == "" {
		return DefaultResourceExtension
	}
	if !strings.HasPrefix(c.ResourceExtension, ".") {
		return "." + c.ResourceExtension
	}
	return c.ResourceExtension
}
