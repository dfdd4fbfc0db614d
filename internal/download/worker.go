package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/handiism/docgrab/internal/http"
	ioutils "github.com/handiism/docgrab/internal/io"
	"github.com/handiism/docgrab/internal/model"
)

// Fetcher opens a streaming response body for a URL.
//
// *http.Client satisfies Fetcher.
type Fetcher interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Worker materializes the targets of one shard, strictly one after another.
//
// Per target the worker:
//  1. Stats the destination. A non-empty file is kept (resume); an empty
//     file is removed and the target retried immediately.
//  2. Creates the destination's parent directory.
//  3. Issues the request, opens the destination exclusively and streams the
//     body into it. A broken stream removes the partial file.
//
// Failures go through the RetryPolicy; exhausted targets are written to
// the ErrorLog and returned as StatusFailed outcomes.
type Worker struct {
	id         int
	fetcher    Fetcher
	policy     *RetryPolicy
	errLog     *ErrorLog
	onProgress ProgressFunc
	onBytes    func(n int64)
	onDone     func()
}

// Materialize runs a single target to a terminal outcome.
func (w *Worker) Materialize(ctx context.Context, target model.Target) model.Outcome {
	w.progress(LevelVerbose, "[Task %d] Downloading %s to %s", w.id, target.SourceURL, target.DestinationPath)

	attempts := 0
	for {
		attempts++

		status, err := w.attempt(ctx, target)
		if err == nil {
			switch status {
			case model.StatusSkippedExisting:
				w.progress(LevelVerbose, "[Task %d] Skipping existing: %s", w.id, target.DestinationPath)
			default:
				w.progress(LevelVerbose, "[Task %d] Downloaded %s", w.id, target.DestinationPath)
			}
			return model.Outcome{Target: target, Status: status, Attempts: attempts}
		}

		switch w.policy.Decide(err, attempts) {
		case RetryNow:
			w.progress(LevelWarning, "[Task %d] Removed empty file %s, retrying (%d/%d)",
				w.id, target.DestinationPath, attempts+1, w.policy.MaxAttempts)
			continue

		case RetryAfterBackoff:
			w.progress(LevelWarning, "[Task %d] Retrying %s (%d/%d): %v",
				w.id, target.SourceURL, attempts+1, w.policy.MaxAttempts, err)
			if waitErr := w.policy.Wait(ctx); waitErr != nil {
				return w.fail(target, attempts, fmt.Errorf("%w (retry aborted: %v)", err, waitErr))
			}
			continue

		default:
			return w.fail(target, attempts, err)
		}
	}
}

// Run materializes every target of shard in order and returns one outcome
// per target, index-aligned with shard.
//
// Once ctx is cancelled no further targets are started; the remaining ones
// are reported as failed with zero attempts.
func (w *Worker) Run(ctx context.Context, shard []model.Target) []model.Outcome {
	outcomes := make([]model.Outcome, len(shard))
	for i, target := range shard {
		if err := ctx.Err(); err != nil {
			outcomes[i] = model.Outcome{Target: target, Status: model.StatusFailed, Err: err}
			w.done()
			continue
		}
		outcomes[i] = w.Materialize(ctx, target)
		w.done()
	}
	return outcomes
}

func (w *Worker) attempt(ctx context.Context, target model.Target) (model.Status, error) {
	info, err := os.Stat(target.DestinationPath)
	switch {
	case err == nil:
		if info.IsDir() {
			return 0, ErrDestinationIsDir
		}
		if info.Size() > 0 {
			return model.StatusSkippedExisting, nil
		}
		if err := ioutils.RemoveIfExists(target.DestinationPath); err != nil {
			return 0, fmt.Errorf("remove empty file: %w", err)
		}
		return 0, ErrEmptyFile

	case !errors.Is(err, fs.ErrNotExist):
		return 0, fmt.Errorf("stat destination: %w", err)
	}

	if err := ioutils.EnsureDir(filepath.Dir(target.DestinationPath)); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	if err := w.fetch(ctx, target); err != nil {
		return 0, err
	}
	return model.StatusSuccess, nil
}

// fetch streams one response body into the destination file. In-flight
// transfers are not interrupted by cancellation of ctx; the client's
// request timeout still applies.
func (w *Worker) fetch(ctx context.Context, target model.Target) error {
	body, err := w.fetcher.Open(context.WithoutCancel(ctx), target.SourceURL)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer body.Close()

	file, err := os.OpenFile(target.DestinationPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}

	writer := &http.ProgressWriter{Writer: file, OnUpdate: w.onBytes}
	_, copyErr := io.Copy(writer, body)
	closeErr := file.Close()

	if err := errors.Join(copyErr, closeErr); err != nil {
		if rmErr := ioutils.RemoveIfExists(target.DestinationPath); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("remove partial file: %w", rmErr))
		}
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (w *Worker) fail(target model.Target, attempts int, err error) model.Outcome {
	w.progress(LevelError, "[Task %d] Failed to download %s after %d attempt(s): %v",
		w.id, target.SourceURL, attempts, err)

	if logErr := w.errLog.Record(target.SourceURL, err); logErr != nil {
		w.progress(LevelWarning, "[Task %d] Could not write error log: %v", w.id, logErr)
	}

	return model.Outcome{Target: target, Status: model.StatusFailed, Err: err, Attempts: attempts}
}

func (w *Worker) done() {
	if w.onDone != nil {
		w.onDone()
	}
}

func (w *Worker) progress(level ProgressLevel, format string, args ...any) {
	if w.onProgress != nil {
		w.onProgress(ProgressEvent{Message: fmt.Sprintf(format, args...), Level: level})
	}
}
