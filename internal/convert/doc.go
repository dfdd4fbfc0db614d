// Package convert translates downloaded HTML pages into Markdown.
//
// Translation is done by html-to-markdown with the GitHub flavored plugin
// (tables, strikethrough, task lists). The result is post-processed by an
// ordered list of regular expression rules, each applied globally:
//
//	rule, err := convert.NewRule(`\[(.*?)\]\(#.*?\)`, "$1")
//	c := convert.NewConverter(logger, rule)
//
// Files keep their position in the tree and only swap the extension:
//
//	files/docs/Viewer.html -> files-markdown/docs/Viewer.md
package convert
