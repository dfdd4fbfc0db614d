// Package pipeline wires the docgrab stages into one run.
//
// A run proceeds in this order:
//  1. Load the seed document from disk or over HTTP
//  2. Extract links (an empty result ends the run normally)
//  3. Optionally write a sitemap of the links
//  4. Map links to download targets and run the download.Coordinator
//  5. Convert every downloaded page to Markdown
//  6. Merge the Markdown tree into "<markdown dir>.full.md"
//
// Per-target download failures never fail the run; they are reported in
// Result.Report. Problems that stop the run early are returned as
// *SetupError, while cancellation returns the context error along with
// whatever was finished.
//
//	runner, err := pipeline.NewRunner(pipeline.Options{Settings: settings})
//	result, err := runner.Run(ctx)
//	var setupErr *pipeline.SetupError
//	if errors.As(err, &setupErr) {
//	    os.Exit(1)
//	}
package pipeline
