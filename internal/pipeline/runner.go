package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/handiism/docgrab/internal/config"
	"github.com/handiism/docgrab/internal/convert"
	"github.com/handiism/docgrab/internal/download"
	"github.com/handiism/docgrab/internal/extract"
	"github.com/handiism/docgrab/internal/http"
	ioutils "github.com/handiism/docgrab/internal/io"
	"github.com/handiism/docgrab/internal/merge"
	"github.com/handiism/docgrab/internal/model"
	"github.com/handiism/docgrab/internal/sitemap"
)

// SetupError reports a failure that prevents a run from starting or
// finishing, such as an unreadable seed or a missing Markdown directory.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

func setupError(stage string, err error) error {
	return &SetupError{Stage: stage, Err: err}
}

// Options configures a Runner.
type Options struct {
	Settings   *config.Settings
	Logger     *zap.Logger
	OnProgress download.ProgressFunc

	// DryRun stops after extraction; nothing is downloaded.
	DryRun bool

	// SkipConvert and SkipMerge disable the Markdown stages.
	SkipConvert bool
	SkipMerge   bool

	// Sitemap writes a sitemap of the extracted links next to the seed.
	Sitemap bool

	// Client replaces the HTTP client built from Settings.
	Client *http.Client
}

// Result summarizes a run.
type Result struct {
	Links       []string
	Targets     []model.Target
	Report      *model.Report
	Converted   []string
	MergedPath  string
	MergedFiles int
	SitemapPath string
}

// Runner drives a complete run: seed loading, link extraction, the
// download engine, Markdown conversion and merging.
//
// Example usage:
//
//	runner, err := pipeline.NewRunner(pipeline.Options{
//	    Settings:   settings,
//	    Logger:     logger,
//	    OnProgress: func(e download.ProgressEvent) { fmt.Println(e.Message) },
//	})
//	result, err := runner.Run(ctx)
type Runner struct {
	settings    *config.Settings
	opts        Options
	client      *http.Client
	extractor   *extract.Extractor
	coordinator *download.Coordinator
	converter   *convert.Converter
	merger      *merge.Merger
	logger      *zap.Logger
}

// NewRunner validates the settings and wires every stage.
func NewRunner(opts Options) (*Runner, error) {
	settings := opts.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, setupError("config", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := opts.Client
	if client == nil {
		proxy, err := settings.Proxy()
		if err != nil {
			return nil, setupError("config", err)
		}
		client = http.NewClient(http.Options{
			Timeout:       settings.RequestTimeout(),
			ProxyEndpoint: proxy,
		})
	}

	rules := make([]convert.Rule, 0, len(settings.Markdown.Replacements))
	for _, r := range settings.Markdown.Replacements {
		rule, err := convert.NewRule(r.Search, r.Replace)
		if err != nil {
			return nil, setupError("config", err)
		}
		rules = append(rules, rule)
	}

	r := &Runner{
		settings: settings,
		opts:     opts,
		client:   client,
		logger:   logger,
	}

	r.extractor = extract.NewExtractor(settings.RootSelector, settings.ElementSelector,
		extract.WithSkipHandler(func(href string, reason error) {
			r.progress(download.LevelVerbose, "Skipping link %q: %v", href, reason)
		}))
	r.coordinator = download.NewCoordinator(client, download.Options{
		Concurrency:  settings.Concurrency,
		MaxAttempts:  settings.MaxRetryAttempts,
		Backoff:      settings.RetryBackoff(),
		ErrorLogPath: settings.ErrorLogPath,
		Logger:       logger,
		OnProgress:   opts.OnProgress,
	})
	r.converter = convert.NewConverter(logger, rules...)
	r.merger = merge.NewMerger(settings.Markdown.MergeSeparator, settings.Markdown.TableOfContents, logger)

	return r, nil
}

// Progress reports the download engine's counters.
func (r *Runner) Progress() (completed, total int32, received int64) {
	return r.coordinator.Progress()
}

// Run executes every enabled stage. Per-target download failures are part
// of the Result, not an error. An empty extraction ends the run early with
// a nil error. A cancelled ctx skips the Markdown stages and returns
// ctx.Err() together with the partial Result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	document, base, err := r.LoadSeed(ctx)
	if err != nil {
		return result, setupError("load seed", err)
	}

	r.progress(download.LevelInfo, "Extracting links from %s", r.settings.Seed)
	links, err := r.extractor.Extract(document, base)
	if errors.Is(err, extract.ErrNoLinks) {
		r.progress(download.LevelWarning, "No links found.")
		return result, nil
	}
	if err != nil {
		return result, setupError("extract", err)
	}
	result.Links = links
	r.progress(download.LevelInfo, "Found %d link(s)", len(links))

	if r.opts.Sitemap {
		path, err := sitemap.Write(r.settings.Seed, links)
		if err != nil {
			r.progress(download.LevelWarning, "Could not write sitemap: %v", err)
		} else {
			result.SitemapPath = path
			r.progress(download.LevelInfo, "Sitemap written to %s", path)
		}
	}

	result.Targets = r.Targets(links)
	if r.opts.DryRun {
		for _, t := range result.Targets {
			r.progress(download.LevelInfo, "%s -> %s", t.SourceURL, t.DestinationPath)
		}
		return result, nil
	}

	if err := r.prepareOutput(); err != nil {
		return result, setupError("output directory", err)
	}

	r.progress(download.LevelInfo, "Downloading %d target(s) with %d worker(s)", len(result.Targets), r.settings.Concurrency)
	result.Report = r.coordinator.Run(ctx, result.Targets)
	r.summarize(result.Report)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !r.opts.SkipConvert {
		result.Converted = r.convertSucceeded(result.Report)
	}

	if !r.opts.SkipMerge {
		output := r.settings.MergedPath()
		n, err := r.merger.Merge(r.settings.MarkdownDirectory(), output)
		if err != nil {
			return result, setupError("merge", err)
		}
		result.MergedPath, result.MergedFiles = output, n
		r.progress(download.LevelSuccess, "Merged %d Markdown file(s) into %s", n, output)
	}

	return result, nil
}

// prepareOutput creates the download directory. An existing path that is
// not a directory is an error.
func (r *Runner) prepareOutput() error {
	dir := r.settings.OutputDirectory
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// LoadSeed reads the seed document from disk or over HTTP and returns it
// with the base URL that relative links resolve against.
func (r *Runner) LoadSeed(ctx context.Context) (document, base string, err error) {
	seed := r.settings.Seed
	if seed == "" {
		return "", "", errors.New("no seed document configured")
	}

	base = r.settings.BaseURL
	if isRemote(seed) {
		if base == "" {
			base = seed
		}
		r.progress(download.LevelVerbose, "Fetching seed %s", seed)
		document, err = r.client.GetString(ctx, seed)
		if err != nil {
			return "", "", err
		}
		return document, base, nil
	}

	data, err := os.ReadFile(seed)
	if err != nil {
		return "", "", err
	}
	if base == "" {
		r.progress(download.LevelWarning, "No base URL for local seed %s; relative links will be skipped", seed)
	}
	return string(data), base, nil
}

// Targets maps extracted links to download targets. Links that cannot be
// mapped are reported and dropped.
func (r *Runner) Targets(links []string) []model.Target {
	cfg := r.settings.ToPathConfig()

	targets := make([]model.Target, 0, len(links))
	for _, link := range links {
		t, err := model.NewTarget(link, cfg)
		if err != nil {
			r.progress(download.LevelWarning, "Skipping %s: %v", link, err)
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

func (r *Runner) convertSucceeded(report *model.Report) []string {
	ext := r.settings.ResourceExtension
	switch {
	case ext == "":
		ext = model.DefaultResourceExtension
	case !strings.HasPrefix(ext, "."):
		ext = "." + ext
	}

	var pages []string
	for _, p := range report.SucceededPaths() {
		if strings.EqualFold(filepath.Ext(p), ext) {
			pages = append(pages, p)
		}
	}

	mdDir := r.settings.MarkdownDirectory()
	r.progress(download.LevelInfo, "Converting %d page(s) to Markdown in %s", len(pages), mdDir)

	written, err := r.converter.ConvertFiles(pages, r.settings.OutputDirectory, mdDir)
	if err != nil {
		r.progress(download.LevelWarning, "Some pages could not be converted: %v", err)
	}
	return written
}

func (r *Runner) summarize(report *model.Report) {
	r.progress(download.LevelInfo, "Total: %d, succeeded: %d (skipped existing: %d), failed: %d",
		report.Total, report.Succeeded, report.Skipped, len(report.Failed))

	if len(report.Failed) == 0 {
		r.progress(download.LevelSuccess, "All downloads completed")
		return
	}
	for _, o := range report.Failed {
		r.progress(download.LevelError, "Failed: %s (%d attempt(s)): %v", o.Target.SourceURL, o.Attempts, o.Err)
	}
}

func (r *Runner) progress(level download.ProgressLevel, format string, args ...any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(download.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}

func isRemote(seed string) bool {
	u, err := url.Parse(seed)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
