// Package merge concatenates the converted Markdown tree into a single
// document.
//
// Files are collected recursively and written in lexical path order, each
// followed by "\n<separator>\n". With a table of contents enabled the
// document starts with a list of every file, titled by its first heading
// (parsed with goldmark) or by its file name.
//
//	m := merge.NewMerger("---", false, nil)
//	n, err := m.Merge("files-markdown", "files-markdown.full.md")
//	if errors.Is(err, merge.ErrMissingDir) {
//	    // nothing was converted
//	}
package merge
