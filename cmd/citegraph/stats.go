package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/storage"
)

var (
	statsInterim string
	statsGraph   string
)

func init() {
	statsCmd.Flags().StringVar(&statsInterim, "interim", "", "Directory for checkpoints and cache")
	statsCmd.Flags().StringVar(&statsGraph, "graph", "", "Graph name, names the checkpoint file")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the state of the checkpointed graph",
	Long: `Show node and edge counts, the current depth, retrieval counters,
and whether the last layer finished or still has pending parents.

Examples:
  citegraph stats
  citegraph stats --human`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	checkpointer := resolveState(cfg, statsInterim, statsGraph)

	g, err := checkpointer.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCheckpoint) {
			exitWithError(ExitDataError, "%v: run citegraph build first", err)
		}
		exitWithError(ExitError, "loading checkpoint: %v", err)
	}

	if humanOutput {
		outputHuman("Checkpoint:  %s\n", checkpointer.Path())
		printStatsHuman(g.Stats())
		return nil
	}
	return outputJSON(StatsResponse{
		Checkpoint: checkpointer.Path(),
		Stats:      g.Stats(),
	})
}
