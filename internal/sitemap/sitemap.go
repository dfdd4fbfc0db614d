package sitemap

import (
	"encoding/xml"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/docgrab/internal/io"
)

// Namespace is the sitemaps.org schema namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultPriority is assigned to every entry.
const DefaultPriority = "0.8"

// URLSet is the root element of a sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL is a single sitemap entry.
type URL struct {
	Loc      string `xml:"loc"`
	Priority string `xml:"priority"`
}

// Build renders links as an indented sitemap document, one entry per
// link in the given order.
func Build(links []string) ([]byte, error) {
	set := URLSet{XMLNS: Namespace, URLs: make([]URL, len(links))}
	for i, link := range links {
		set.URLs[i] = URL{Loc: link, Priority: DefaultPriority}
	}

	body, err := xml.MarshalIndent(set, "", "    ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// Path returns where the sitemap for a seed document is written: next to
// a local seed, or in the working directory for a remote one.
//
//	Path("docs/cesium-api-full.html") // "docs/cesium-api-full-sitemap.xml"
func Path(seed string) string {
	dir, name := filepath.Dir(seed), filepath.Base(seed)

	if u, err := url.Parse(seed); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		dir, name = ".", path.Base(u.Path)
		if name == "/" || name == "." {
			return u.Hostname() + "-sitemap.xml"
		}
	}

	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, name+"-sitemap.xml")
}

// Write builds the sitemap for links and stores it at Path(seed). It
// returns the written path.
func Write(seed string, links []string) (string, error) {
	data, err := Build(links)
	if err != nil {
		return "", err
	}

	out := Path(seed)
	if err := ioutils.WriteFile(out, data); err != nil {
		return "", err
	}
	return out, nil
}
