// Package cli implements the pagediff command-line interface using cobra.
//
// Commands receive their dependencies through Initialize, which the main
// package calls after wiring the adapters. Commands never construct
// adapters themselves.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// verbose toggles debug logging on stderr.
var verbose bool

// Injected dependencies. Optional ones may be nil; commands degrade
// accordingly.
var (
	comparer     driving.Comparer
	renderer     driven.Renderer
	configStore  driven.ConfigStore
	cacheStore   driven.CacheStore
	sessionStore driven.SessionStore
	exporter     driven.ReportExporter
)

// Deps carries the wired adapters for command execution.
type Deps struct {
	Comparer driving.Comparer
	Renderer driven.Renderer
	Config   driven.ConfigStore
	Cache    driven.CacheStore
	Sessions driven.SessionStore
	Exporter driven.ReportExporter
}

// Initialize injects the adapters the commands run against.
func Initialize(deps Deps) {
	comparer = deps.Comparer
	renderer = deps.Renderer
	configStore = deps.Config
	cacheStore = deps.Cache
	sessionStore = deps.Sessions
	exporter = deps.Exporter
}

var rootCmd = &cobra.Command{
	Use:   "pagediff",
	Short: "Compare documents page by page, visually",
	Long: `pagediff compares two documents as rendered pages: it matches pages
across the documents even when pages were inserted, removed or reordered,
then highlights the pixel-level differences of every matched pair.

Inputs can be PDF, XPS, EPUB or CBZ files, a single image, or a directory
of page images.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version (set from main via ldflags).
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
