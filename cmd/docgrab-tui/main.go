package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/handiism/docgrab/internal/config"
	"github.com/handiism/docgrab/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (default config.yml if present)")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns the terminal, so the pipeline logs nowhere.
	if err := tui.Run(settings, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
