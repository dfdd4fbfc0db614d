package model

// Status is the terminal state of one target within one pass.
type Status int

const (
	// StatusSuccess means the body was fetched and fully written.
	StatusSuccess Status = iota
	// StatusSkippedExisting means a non-empty file already occupied the destination.
	StatusSkippedExisting
	// StatusFailed means the retry budget was exhausted.
	StatusFailed
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkippedExisting:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome records how a single target ended within one pass.
type Outcome struct {
	Target Target
	Status Status
	Err    error

	// Attempts is at least 1 for every target that was started. Targets
	// never started because the run was cancelled report 0.
	Attempts int
}

// Succeeded reports whether the destination holds usable content, which is
// true for fresh downloads and resumed (skipped) files alike.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess || o.Status == StatusSkippedExisting
}

// Report aggregates the outcomes of a coordinator run.
type Report struct {
	// Total is the number of distinct targets in the run.
	Total int

	// Succeeded counts Success and SkippedExisting outcomes.
	Succeeded int

	// Skipped counts SkippedExisting outcomes only (a subset of Succeeded).
	Skipped int

	// Failed lists failed outcomes in original target order.
	Failed []Outcome

	// Outcomes holds the final outcome of every target in original order.
	Outcomes []Outcome

	// Passes is the number of coordinator passes that ran (1 or 2).
	Passes int
}

// NewReport builds a Report from outcomes given in original target order.
func NewReport(outcomes []Outcome) *Report {
	r := &Report{
		Total:    len(outcomes),
		Outcomes: outcomes,
		Passes:   1,
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSkippedExisting:
			r.Skipped++
			r.Succeeded++
		case StatusSuccess:
			r.Succeeded++
		default:
			r.Failed = append(r.Failed, o)
		}
	}
	return r
}

// FailedTargets returns the targets of all failed outcomes, in order.
func (r *Report) FailedTargets() []Target {
	targets := make([]Target, len(r.Failed))
	for i, o := range r.Failed {
		targets[i] = o.Target
	}
	return targets
}

// SucceededPaths returns the destination paths of every usable outcome, in
// original order. These are the valid inputs for Markdown conversion.
func (r *Report) SucceededPaths() []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			paths = append(paths, o.Target.DestinationPath)
		}
	}
	return paths
}

// Merge replaces the outcomes of re-driven targets with their newer outcome
// and recomputes the counters. Targets absent from redriven keep their
// original outcome.
func (r *Report) Merge(redriven *Report) *Report {
	latest := make(map[string]Outcome, len(redriven.Outcomes))
	for _, o := range redriven.Outcomes {
		latest[o.Target.SourceURL] = o
	}

	merged := make([]Outcome, len(r.Outcomes))
	for i, o := range r.Outcomes {
		if n, ok := latest[o.Target.SourceURL]; ok {
			merged[i] = n
			continue
		}
		merged[i] = o
	}

	out := NewReport(merged)
	out.Passes = r.Passes + redriven.Passes
	return out
}
