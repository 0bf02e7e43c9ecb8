// Package main provides the citegraph CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/config"
	"github.com/citegraph/citegraph/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citegraph",
	Short: "Incremental citation graph builder",
	Long: `citegraph builds a directed citation graph from a set of seed
publications, expanding breadth-first through Scopus reference data
up to a chosen depth.

The build checkpoints after every completed layer and on quota
exhaustion or interruption, so a long crawl can be resumed later
without refetching anything. All commands output JSON by default
for easy scripting; pass --human for readable text.`,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRun: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigFile, "Path to the configuration file")
	rootCmd.Version = Version
}

// setupLogging routes structured logs to stderr, keeping stdout for
// command output.
func setupLogging(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadProjectConfig reads the configuration file, exiting on a file
// that exists but cannot be used.
func loadProjectConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// resolveState applies state-location flags onto the configuration
// and returns the checkpointer for the resulting path.
func resolveState(cfg *config.Config, interim, graph string) *storage.Checkpointer {
	if interim != "" {
		cfg.InterimDir = config.ExpandPath(interim)
	}
	if graph != "" {
		cfg.GraphName = graph
	}
	return storage.NewCheckpointer(cfg.CheckpointPath(),
		storage.WithLogger(slog.Default().With("component", "storage")))
}
