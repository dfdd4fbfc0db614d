// Package extract finds downloadable links in a seed document.
//
// Links are selected with a root/element selector pair, stripped of
// fragments, resolved against the seed's directory and deduplicated in
// first-seen order:
//
//	ex := extract.NewExtractor("body", "a")
//	links, err := ex.Extract(seedHTML, "https://x.test/docs/index.html")
//	if errors.Is(err, extract.ErrNoLinks) {
//	    // nothing to download
//	}
//
// Site-absolute hrefs are mounted under the seed's directory, so with a
// base of https://x.test/docs/index.html the link /static/app.html becomes
// https://x.test/docs/static/app.html. Links outside the mirrored tree are
// remapped this way rather than dropped.
//
// Element lookup goes through the small Node/Parser interface, which is
// implemented on top of goquery.
package extract
