package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handiism/docgrab/internal/config"
	"github.com/handiism/docgrab/internal/download"
	"github.com/handiism/docgrab/internal/logger"
	"github.com/handiism/docgrab/internal/pipeline"
)

// options holds the parsed command line.
type options struct {
	seed        string
	threads     int
	configPath  string
	output      string
	baseURL     string
	verbose     bool
	dryRun      bool
	noConvert   bool
	noMerge     bool
	sitemap     bool
	initConfig  bool
	logLevel    string
	logFormat   string
	showVersion bool
}

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "docgrab %s\n", version)
		return 0
	}

	if opts.initConfig {
		path := opts.configPath
		if path == "" {
			path = config.DefaultConfigPath
		}
		if err := config.DefaultSettings().Save(path); err != nil {
			fmt.Fprintf(stderr, "Error writing config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote default configuration to %s\n", path)
		return 0
	}

	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	opts.apply(settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	log, err := logger.New(settings.Logging.Level, settings.Logging.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	log = log.With(zap.String("run_id", uuid.NewString()))

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := pipeline.NewRunner(pipeline.Options{
		Settings:    settings,
		Logger:      log,
		OnProgress:  eventLogger(log),
		DryRun:      opts.dryRun,
		SkipConvert: opts.noConvert,
		SkipMerge:   opts.noMerge,
		Sitemap:     opts.sitemap,
	})
	if err != nil {
		log.Error("setup failed", zap.Error(err))
		return 1
	}

	log.Info("docgrab starting",
		zap.String("version", version),
		zap.String("seed", settings.Seed),
		zap.String("output", settings.OutputDirectory),
		zap.Int("concurrency", settings.Concurrency))

	result, err := runner.Run(ctx)
	_, _, received := runner.Progress()
	printSummary(stdout, result, received)

	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil:
		fmt.Fprintln(stdout, "Download cancelled.")
		return 130
	default:
		log.Error("run failed", zap.Error(err))
		return 1
	}
}

// parseArgs accepts flags both before and after the positional seed, so
// "docgrab seed.html -t 8" works like "docgrab -t 8 seed.html".
func parseArgs(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("docgrab", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&opts.threads, "t", 0, "Number of concurrent download workers (overrides config)")
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default config.yml if present)")
	fs.StringVar(&opts.output, "output", "", "Output directory (overrides config)")
	fs.StringVar(&opts.baseURL, "base-url", "", "Base URL for relative links in a local seed")
	fs.BoolVar(&opts.verbose, "verbose", false, "Show verbose output")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Extract links without downloading")
	fs.BoolVar(&opts.noConvert, "no-convert", false, "Skip HTML to Markdown conversion")
	fs.BoolVar(&opts.noMerge, "no-merge", false, "Skip merging Markdown files")
	fs.BoolVar(&opts.sitemap, "sitemap", false, "Write a sitemap of the extracted links next to the seed")
	fs.BoolVar(&opts.initConfig, "init-config", false, "Write a default config file and exit")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(output, "docgrab - Mirror a documentation site and convert it to Markdown")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "Usage:")
		fmt.Fprintln(output, "  docgrab [options] <seed file or URL>")
		fmt.Fprintln(output, "  docgrab <seed file or URL> -t 8")
		fmt.Fprintln(output)
		fmt.Fprintln(output, "For interactive mode, use: docgrab-tui")
		fmt.Fprintln(output)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	for rest := fs.Args(); len(rest) > 0; rest = fs.Args() {
		if opts.seed != "" {
			return nil, fmt.Errorf("unexpected argument %q", rest[0])
		}
		opts.seed = rest[0]
		if err := fs.Parse(rest[1:]); err != nil {
			return nil, err
		}
	}

	if opts.threads < 0 {
		return nil, fmt.Errorf("-t must be at least 1, got %d", opts.threads)
	}

	return opts, nil
}

// apply overrides settings with every flag that was given.
func (o *options) apply(s *config.Settings) {
	if o.seed != "" {
		s.Seed = o.seed
	}
	if o.threads > 0 {
		s.Concurrency = o.threads
	}
	if o.output != "" {
		s.OutputDirectory = o.output
	}
	if o.baseURL != "" {
		s.BaseURL = o.baseURL
	}
	if o.logLevel != "" {
		s.Logging.Level = o.logLevel
	}
	if o.verbose {
		s.Logging.Level = "debug"
	}
	if o.logFormat != "" {
		s.Logging.Format = o.logFormat
	}
}

// eventLogger routes progress events to log. Verbose events are logged at
// debug level.
func eventLogger(log *zap.Logger) download.ProgressFunc {
	return func(e download.ProgressEvent) {
		switch e.Level {
		case download.LevelVerbose:
			log.Debug(e.Message)
		case download.LevelWarning:
			log.Warn(e.Message)
		case download.LevelError:
			log.Error(e.Message)
		case download.LevelSuccess:
			log.Info(e.Message, zap.Bool("success", true))
		default:
			log.Info(e.Message)
		}
	}
}

func printSummary(w io.Writer, result *pipeline.Result, received int64) {
	if result == nil || result.Report == nil {
		return
	}
	report := result.Report

	fmt.Fprintln(w)
	fmt.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintf(w, "Total: %d  Succeeded: %d  Failed: %d  Downloaded: %s\n",
		report.Total, report.Succeeded, len(report.Failed), humanize.Bytes(uint64(received)))
	if report.Skipped > 0 {
		fmt.Fprintf(w, "   (%d already present)\n", report.Skipped)
	}
	for _, o := range report.Failed {
		fmt.Fprintf(w, "❌ %s\n", o.Target.SourceURL)
	}
	if result.MergedPath != "" {
		fmt.Fprintf(w, "✨ Merged %d Markdown file(s) into %s\n", result.MergedFiles, result.MergedPath)
	}
}
