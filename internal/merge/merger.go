package merge

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	ioutils "github.com/handiism/docgrab/internal/io"
)

// DefaultSeparator is written after every merged file.
const DefaultSeparator = "---"

// ErrMissingDir is returned when the Markdown directory does not exist.
var ErrMissingDir = errors.New("markdown directory does not exist")

// Merger concatenates a tree of Markdown files into one document.
//
// Example usage:
//
//	m := merge.NewMerger("<fileMergeSpipter>", true, logger)
//	n, err := m.Merge("files-markdown", "files-markdown.full.md")
type Merger struct {
	separator       string
	tableOfContents bool
	md              goldmark.Markdown
	logger          *zap.Logger
}

// NewMerger creates a Merger. An empty separator selects DefaultSeparator.
func NewMerger(separator string, tableOfContents bool, logger *zap.Logger) *Merger {
	if separator == "" {
		separator = DefaultSeparator
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Merger{
		separator:       separator,
		tableOfContents: tableOfContents,
		md:              goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:          logger,
	}
}

// Merge writes every .md file below root, in lexical path order, to output.
// Each file's content is followed by a newline, the separator and another
// newline. It returns the number of files merged.
func (m *Merger) Merge(root, output string) (int, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return 0, fmt.Errorf("%w: %s", ErrMissingDir, root)
	}
	if err != nil {
		return 0, err
	}

	files, err := ioutils.ListFiles(root, ".md")
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", root, err)
	}
	files = exclude(files, output)

	if err := ioutils.EnsureDir(filepath.Dir(output)); err != nil {
		return 0, err
	}
	out, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	w := bufio.NewWriter(out)

	if m.tableOfContents {
		if err := m.writeContents(w, root, files); err != nil {
			return 0, err
		}
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return 0, err
		}
		if err := m.writeSection(w, content); err != nil {
			return 0, err
		}
	}

	if err := w.Flush(); err != nil {
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	m.logger.Debug("merged markdown", zap.String("output", output), zap.Int("files", len(files)))
	return len(files), nil
}

func (m *Merger) writeSection(w *bufio.Writer, content []byte) error {
	if _, err := w.Write(content); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", m.separator)
	return err
}

func (m *Merger) writeContents(w *bufio.Writer, root string, files []string) error {
	var b strings.Builder
	b.WriteString("# Contents\n\n")

	base := filepath.Base(filepath.Clean(root))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return err
		}

		title := m.Title(content)
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", title, filepath.ToSlash(filepath.Join(base, rel)))
	}

	return m.writeSection(w, []byte(b.String()))
}

// Title returns the text of the first heading in a Markdown document, or
// "" when it has none.
func (m *Merger) Title(source []byte) string {
	doc := m.md.Parser().Parse(text.NewReader(source))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(string(h.Text(source)))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}

func exclude(files []string, path string) []string {
	target, err := filepath.Abs(path)
	if err != nil {
		return files
	}

	kept := files[:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil && abs == target {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
