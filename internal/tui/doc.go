// Package tui provides a Bubble Tea terminal user interface for docgrab.
//
// The model collects a seed document and run options, then drives a
// pipeline.Runner in the background. Progress events stream into the view
// through a channel, while the completed/total counters are polled from
// the download coordinator on a timer.
package tui
