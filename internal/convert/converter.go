package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"go.uber.org/zap"

	ioutils "github.com/handiism/docgrab/internal/io"
)

// MarkdownExtension is the extension of every converted file.
const MarkdownExtension = ".md"

// Rule is a global regular expression substitution applied to the
// converted Markdown. Replace may reference groups as $1.
type Rule struct {
	pattern *regexp.Regexp
	replace string
}

// NewRule compiles a replacement rule.
func NewRule(search, replace string) (Rule, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid replacement pattern %q: %w", search, err)
	}
	return Rule{pattern: re, replace: replace}, nil
}

// Apply rewrites every match of the rule in s.
func (r Rule) Apply(s string) string {
	return r.pattern.ReplaceAllString(s, r.replace)
}

// Converter turns downloaded HTML pages into Markdown files.
//
// Example usage:
//
//	rule, _ := convert.NewRule(`\[(.*?)\]\(#.*?\)`, "$1")
//	c := convert.NewConverter(logger, rule)
//	written, err := c.ConvertDir("files", "files-markdown")
type Converter struct {
	md     *md.Converter
	rules  []Rule
	logger *zap.Logger
}

// NewConverter creates a Converter that applies rules in order after
// translation. A nil logger disables logging.
func NewConverter(logger *zap.Logger, rules ...Rule) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}

	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())

	return &Converter{
		md:     conv,
		rules:  rules,
		logger: logger,
	}
}

// Convert translates one HTML document and applies the replacement rules.
func (c *Converter) Convert(html string) (string, error) {
	markdown, err := c.md.ConvertString(html)
	if err != nil {
		return "", err
	}
	for _, r := range c.rules {
		markdown = r.Apply(markdown)
	}
	return markdown, nil
}

// ConvertFile converts the HTML file at src and writes the result to dst,
// creating parent directories.
func (c *Converter) ConvertFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	markdown, err := c.Convert(string(data))
	if err != nil {
		return fmt.Errorf("convert %s: %w", src, err)
	}

	if err := ioutils.WriteFile(dst, []byte(markdown)); err != nil {
		return err
	}

	c.logger.Debug("converted", zap.String("src", src), zap.String("dst", dst))
	return nil
}

// ConvertFiles converts each of paths, which must lie below inputRoot, into
// the mirrored location below outputRoot. A failing file does not stop the
// others; all failures are returned joined. The written Markdown paths are
// returned in input order.
func (c *Converter) ConvertFiles(paths []string, inputRoot, outputRoot string) ([]string, error) {
	var (
		written []string
		errs    []error
	)

	for _, src := range paths {
		dst, err := MarkdownPath(src, inputRoot, outputRoot)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := c.ConvertFile(src, dst); err != nil {
			c.logger.Warn("conversion failed", zap.String("src", src), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		written = append(written, dst)
	}

	return written, errors.Join(errs...)
}

// ConvertDir converts every .html file below inputRoot.
func (c *Converter) ConvertDir(inputRoot, outputRoot string) ([]string, error) {
	paths, err := ioutils.ListFiles(inputRoot, ".html")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", inputRoot, err)
	}
	return c.ConvertFiles(paths, inputRoot, outputRoot)
}

// MarkdownPath maps an HTML file below inputRoot to its Markdown
// counterpart below outputRoot.
//
//	MarkdownPath("files/docs/a.html", "files", "files-markdown")
//	// "files-markdown/docs/a.md"
func MarkdownPath(src, inputRoot, outputRoot string) (string, error) {
	rel, err := filepath.Rel(inputRoot, src)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", src, inputRoot)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + MarkdownExtension
	return filepath.Join(outputRoot, rel), nil
}
