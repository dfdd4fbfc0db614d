package extract

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrNoLinks is returned when a document yields no downloadable links.
//
// This is a normal terminal condition rather than a fault: callers should
// report it and stop without treating the run as failed.
var ErrNoLinks = errors.New("no links found")

// Default selectors and attribute.
const (
	DefaultRootSelector    = "body"
	DefaultElementSelector = "a"
	DefaultAttribute       = "href"
)

// Extractor pulls candidate URLs out of a seed document.
//
// Extraction proceeds in this order:
//  1. Select elements matching ElementSelector inside every RootSelector match
//  2. Read the link attribute, dropping missing or empty values
//  3. Strip fragments ("#...")
//  4. Resolve against the base directory
//  5. Deduplicate by resolved URL, keeping first-seen order
//
// Example usage:
//
//	ex := NewExtractor("body", "a")
//	links, err := ex.Extract(html, "https://x.test/docs")
//	if errors.Is(err, ErrNoLinks) {
//	    fmt.Println("No links found.")
//	    return
//	}
type Extractor struct {
	RootSelector    string
	ElementSelector string
	Attribute       string

	parser Parser
	onSkip func(href string, reason error)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithParser replaces the default goquery parser.
func WithParser(p Parser) Option {
	return func(e *Extractor) { e.parser = p }
}

// WithSkipHandler registers a callback invoked for every href that is
// dropped because it cannot become a download target.
func WithSkipHandler(fn func(href string, reason error)) Option {
	return func(e *Extractor) { e.onSkip = fn }
}

// NewExtractor creates an Extractor. Empty selectors fall back to
// "body" and "a".
func NewExtractor(rootSelector, elementSelector string, opts ...Option) *Extractor {
	if rootSelector == "" {
		rootSelector = DefaultRootSelector
	}
	if elementSelector == "" {
		elementSelector = DefaultElementSelector
	}

	e := &Extractor{
		RootSelector:    rootSelector,
		ElementSelector: elementSelector,
		Attribute:       DefaultAttribute,
		parser:          GoqueryParser{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the deduplicated absolute URLs linked from document.
//
// base is the URI of the document itself (or of the site it mirrors). An
// empty base is allowed, in which case only hrefs that are already
// absolute survive.
//
// Returns ErrNoLinks when nothing usable was found.
func (e *Extractor) Extract(document, base string) ([]string, error) {
	var dir *url.URL
	if base != "" {
		var err error
		dir, err = BaseDirectory(base)
		if err != nil {
			return nil, err
		}
	}

	root, err := e.parser.Parse(strings.NewReader(document))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var links []string

	for _, scope := range root.Find(e.RootSelector) {
		for _, el := range scope.Find(e.ElementSelector) {
			href, ok := el.Attr(e.Attribute)
			if !ok {
				continue
			}

			resolved, err := Resolve(dir, href)
			if err != nil {
				e.skip(href, err)
				continue
			}
			if resolved == "" {
				continue
			}

			if _, dup := seen[resolved]; dup {
				continue
			}
			seen[resolved] = struct{}{}
			links = append(links, resolved)
		}
	}

	if len(links) == 0 {
		return nil, ErrNoLinks
	}
	return links, nil
}

func (e *Extractor) skip(href string, reason error) {
	if e.onSkip != nil {
		e.onSkip(href, reason)
	}
}

// BaseDirectory returns the directory URL that relative hrefs resolve
// against.
//
// The query string and fragment are discarded. A final path segment that
// looks like a file (contains a dot) is removed; an extensionless segment
// is treated as a directory. The result always ends in "/".
//
// Example:
//
//	BaseDirectory("https://x.test/docs/index.html?v=1") // https://x.test/docs/
//	BaseDirectory("https://x.test/docs")                // https://x.test/docs/
func BaseDirectory(base string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base %q: %w", base, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base is not an absolute URL: %q", base)
	}

	dir := *u
	dir.RawQuery = ""
	dir.ForceQuery = false
	dir.Fragment = ""
	dir.RawFragment = ""
	dir.RawPath = ""

	switch {
	case dir.Path == "":
		dir.Path = "/"
	case !strings.HasSuffix(dir.Path, "/"):
		if strings.Contains(path.Base(dir.Path), ".") {
			dir.Path = path.Dir(dir.Path)
		}
		if !strings.HasSuffix(dir.Path, "/") {
			dir.Path += "/"
		}
	}

	return &dir, nil
}

// Resolve turns one raw href into an absolute, fragment-free URL string.
//
// It returns "" with a nil error for hrefs that carry nothing but a
// fragment or whitespace. dir may be nil, in which case only absolute
// hrefs resolve.
//
// Root-relative hrefs ("/a.html") are resolved under dir unless their path
// already starts with dir's path, so a mirror hosted below the site root
// keeps its links inside the mirror.
func Resolve(dir *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	href, _, _ = strings.Cut(href, "#")
	if href == "" {
		return "", nil
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href: %w", err)
	}

	var abs *url.URL
	switch {
	case ref.IsAbs():
		abs = ref
	case dir == nil:
		return "", fmt.Errorf("relative href without base URL")
	case strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") && !strings.HasPrefix(ref.Path, dir.Path):
		mounted := *ref
		mounted.Path = strings.TrimPrefix(ref.Path, "/")
		mounted.RawPath = ""
		abs = dir.ResolveReference(&mounted)
	default:
		abs = dir.ResolveReference(ref)
	}

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", abs.Scheme)
	}
	if abs.Host == "" {
		return "", fmt.Errorf("missing host")
	}

	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String(), nil
}
