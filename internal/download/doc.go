// Package download provides the concurrent download engine of docgrab.
//
// # Coordinator
//
// The Coordinator runs the whole engine:
//
//  1. Deduplicate targets by source URL
//  2. Partition them into one contiguous shard per worker
//  3. Download every shard concurrently, each shard sequentially
//  4. Aggregate outcomes into a model.Report
//  5. Re-drive the failed subset exactly once
//
// # Basic Usage
//
//	coord := download.NewCoordinator(client, download.Options{
//	    Concurrency:  4,
//	    MaxAttempts:  3,
//	    Backoff:      3 * time.Second,
//	    ErrorLogPath: "download_errors.log",
//	    OnProgress: func(e download.ProgressEvent) {
//	        fmt.Println(e.Message)
//	    },
//	})
//	report := coord.Run(ctx, targets)
//
// # Resume
//
// A destination that already holds a non-empty file is never fetched again,
// so re-running the same target set after a successful run makes no
// network requests. Empty files are treated as leftovers of an interrupted
// attempt: they are removed and fetched again.
//
// # Retry Logic
//
// Failed attempts are retried by a RetryPolicy with a constant backoff
// (3s by default) up to MaxAttempts total attempts. Targets that exhaust
// their budget are appended to the error log and reported as failed; they
// never abort sibling downloads.
package download
