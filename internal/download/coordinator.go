package download

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/docgrab/internal/model"
)

// DefaultConcurrency is the number of shards downloaded in parallel.
const DefaultConcurrency = 2

// Options configures a Coordinator.
type Options struct {
	// Concurrency is the number of workers, one per shard.
	Concurrency int

	// MaxAttempts is the total number of attempts per target and pass.
	MaxAttempts int

	// Backoff is the constant delay between transient retries.
	Backoff time.Duration

	// ErrorLogPath is the append-only log of terminal failures.
	// Empty disables the log.
	ErrorLogPath string

	// Logger receives debug information about passes and shards.
	Logger *zap.Logger

	// OnProgress receives per-target progress events.
	OnProgress ProgressFunc
}

// Coordinator runs download passes over a bounded pool of workers.
//
// A run deduplicates its targets, splits them into Concurrency contiguous
// shards and downloads every shard concurrently, each one sequentially.
// If the first pass leaves failures, exactly one more pass runs over the
// failed targets only.
//
// Example usage:
//
//	coord := NewCoordinator(client, Options{Concurrency: 4, MaxAttempts: 3})
//	report := coord.Run(ctx, targets)
//	fmt.Printf("%d/%d succeeded\n", report.Succeeded, report.Total)
type Coordinator struct {
	fetcher     Fetcher
	concurrency int
	policy      *RetryPolicy
	errLog      *ErrorLog
	logger      *zap.Logger
	onProgress  ProgressFunc

	totalTargets     int32
	completedTargets int32
	receivedBytes    int64
}

// NewCoordinator creates a Coordinator that downloads through fetcher.
func NewCoordinator(fetcher Fetcher, opts Options) *Coordinator {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Coordinator{
		fetcher:     fetcher,
		concurrency: concurrency,
		policy:      NewRetryPolicy(opts.MaxAttempts, opts.Backoff),
		errLog:      NewErrorLog(opts.ErrorLogPath),
		logger:      logger,
		onProgress:  opts.OnProgress,
	}
}

// Policy exposes the retry policy shared by all workers.
func (c *Coordinator) Policy() *RetryPolicy {
	return c.policy
}

// Run downloads targets and returns the aggregate report.
//
// Per-target failures never abort sibling targets or shards; they are
// reported in Report.Failed in original target order. Run performs at most
// two passes and skips the second one if ctx has been cancelled.
func (c *Coordinator) Run(ctx context.Context, targets []model.Target) *model.Report {
	unique := c.dedupe(targets)

	atomic.StoreInt32(&c.totalTargets, int32(len(unique)))
	atomic.StoreInt32(&c.completedTargets, 0)
	atomic.StoreInt64(&c.receivedBytes, 0)

	report := c.runPass(ctx, unique, 1)
	if len(report.Failed) == 0 {
		return report
	}

	if ctx.Err() != nil {
		c.logger.Debug("skipping re-drive pass, run cancelled", zap.Int("failed", len(report.Failed)))
		return report
	}

	failed := report.FailedTargets()
	c.progress(LevelWarning, "%d download(s) failed, retrying them once more", len(failed))
	atomic.AddInt32(&c.totalTargets, int32(len(failed)))

	return report.Merge(c.runPass(ctx, failed, 2))
}

// Progress returns the number of finished target downloads, the number
// planned so far (re-driven targets count twice) and the bytes received.
func (c *Coordinator) Progress() (completed, total int32, received int64) {
	return atomic.LoadInt32(&c.completedTargets),
		atomic.LoadInt32(&c.totalTargets),
		atomic.LoadInt64(&c.receivedBytes)
}

func (c *Coordinator) runPass(ctx context.Context, targets []model.Target, pass int) *model.Report {
	shards := Partition(targets, c.concurrency)

	sizes := make([]int, len(shards))
	for i, shard := range shards {
		sizes[i] = len(shard)
	}
	c.logger.Debug("starting pass",
		zap.Int("pass", pass),
		zap.Int("targets", len(targets)),
		zap.Ints("shard_sizes", sizes))

	// Shards are contiguous, so each worker owns a disjoint range of
	// outcomes and no locking is needed.
	outcomes := make([]model.Outcome, len(targets))

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	offset := 0
	for i, shard := range shards {
		start := offset
		offset += len(shard)
		if len(shard) == 0 {
			continue
		}

		worker := c.newWorker(i)
		g.Go(func() error {
			copy(outcomes[start:], worker.Run(ctx, shard))
			return nil
		})
	}
	_ = g.Wait()

	report := model.NewReport(outcomes)
	c.logger.Debug("pass finished",
		zap.Int("pass", pass),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)))

	return report
}

func (c *Coordinator) newWorker(id int) *Worker {
	return &Worker{
		id:         id,
		fetcher:    c.fetcher,
		policy:     c.policy,
		errLog:     c.errLog,
		onProgress: c.onProgress,
		onBytes: func(n int64) {
			atomic.AddInt64(&c.receivedBytes, n)
		},
		onDone: func() {
			atomic.AddInt32(&c.completedTargets, 1)
		},
	}
}

// dedupe drops repeated source URLs and any later target whose destination
// path collides with an earlier one, so no two workers ever write the same
// file.
func (c *Coordinator) dedupe(targets []model.Target) []model.Target {
	seenURL := make(map[string]struct{}, len(targets))
	seenPath := make(map[string]string, len(targets))
	unique := make([]model.Target, 0, len(targets))

	for _, t := range targets {
		if _, dup := seenURL[t.SourceURL]; dup {
			continue
		}
		seenURL[t.SourceURL] = struct{}{}

		if owner, dup := seenPath[t.DestinationPath]; dup {
			c.progress(LevelWarning, "Skipping %s: %s is already written by %s", t.SourceURL, t.DestinationPath, owner)
			continue
		}
		seenPath[t.DestinationPath] = t.SourceURL

		unique = append(unique, t)
	}

	return unique
}

func (c *Coordinator) progress(level ProgressLevel, format string, args ...any) {
	if c.onProgress != nil {
		c.onProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
