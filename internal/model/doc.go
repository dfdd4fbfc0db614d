// Package model defines the core data structures used throughout docgrab.
//
// # Target
//
// Target is one download unit. Its destination path is derived from the
// source URL and a PathConfig:
//
//	cfg := &model.PathConfig{OutputDirectory: "files"}
//	target, err := model.NewTarget("https://x.test/docs/c", cfg)
//	fmt.Println(target.DestinationPath) // files/docs/c.html
//
// # Outcome and Report
//
// Each target produces exactly one Outcome per coordinator pass. A Report
// aggregates the outcomes of a run:
//
//	report := model.NewReport(outcomes)
//	fmt.Printf("%d/%d succeeded, %d failed\n", report.Succeeded, report.Total, len(report.Failed))
//
// Only outcomes with Succeeded() == true are valid inputs for conversion.
package model
