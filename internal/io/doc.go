// Package ioutils provides file system utilities shared by the downloader,
// the Markdown converter and the merger.
//
// # File Operations
//
//	// Ensure a destination's parent directory exists
//	err := ioutils.EnsureDir("files/docs")
//
//	// Remove a partial download, ignoring a missing file
//	err := ioutils.RemoveIfExists("files/docs/a.html")
//
//	// Write converted output, creating directories on the way
//	err := ioutils.WriteFile("files-markdown/docs/a.md", data)
//
//	// Collect a tree of Markdown files in stable order
//	files, err := ioutils.ListFiles("files-markdown", ".md")
package ioutils
