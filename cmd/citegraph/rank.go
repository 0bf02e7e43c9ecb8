package main

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/ranking"
	"github.com/citegraph/citegraph/internal/storage"
)

var (
	rankSJR     string
	rankBackup  bool
	rankInterim string
	rankGraph   string
)

func init() {
	rankCmd.Flags().StringVar(&rankSJR, "sjr", "", "Directory of SCImago Journal Rank CSV exports")
	rankCmd.Flags().BoolVar(&rankBackup, "backup", false, "Keep a timestamped checkpoint copy before rewriting")
	rankCmd.Flags().StringVar(&rankInterim, "interim", "", "Directory for checkpoints and cache")
	rankCmd.Flags().StringVar(&rankGraph, "graph", "", "Graph name, names the checkpoint file")
	rootCmd.AddCommand(rankCmd)
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score graph nodes by journal rank",
	Long: `Assign an SJR-derived rank score to every node in the checkpointed
graph, matching journals by ISSN first and by title as a fallback.
Nodes whose journal is not in the rank data get a zero score.

The scored graph replaces the checkpoint; pass --backup to keep a
timestamped copy of the previous state.

Examples:
  citegraph rank --sjr rankings/
  citegraph rank --sjr rankings/ --backup`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	sjrDir := cfg.SJRDir
	if rankSJR != "" {
		sjrDir = rankSJR
	}
	if sjrDir == "" {
		exitWithError(ExitConfigError, "no SJR directory: pass --sjr or set sjr_dir in %s", configPath)
	}
	checkpointer := resolveState(cfg, rankInterim, rankGraph)

	g, err := checkpointer.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCheckpoint) {
			exitWithError(ExitDataError, "%v: run citegraph build first", err)
		}
		exitWithError(ExitError, "loading checkpoint: %v", err)
	}

	source, err := ranking.LoadSJR(sjrDir)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	resp := RankResponse{Status: "ranked", Checkpoint: checkpointer.Path()}
	if rankBackup {
		backup, err := checkpointer.SaveBackup(g, time.Now())
		if err != nil {
			exitWithError(ExitError, "backing up checkpoint: %v", err)
		}
		resp.Backup = backup
	}

	scorer := ranking.NewScorer(source,
		ranking.WithLogger(slog.Default().With("component", "ranking")))
	summary, err := scorer.ScoreGraph(g)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	resp.Summary = summary

	if err := checkpointer.Save(g); err != nil {
		exitWithError(ExitError, "saving scored graph: %v", err)
	}

	if humanOutput {
		outputHuman("Scored %d of %d nodes (%d by ISSN, %d by title, %d fuzzy, %d unmatched)\n",
			summary.Scored, summary.Nodes, summary.ByISSN,
			summary.ByTitle, summary.ByFuzzy, summary.Unmatched)
		if resp.Backup != "" {
			outputHuman("Backup:      %s\n", resp.Backup)
		}
		return nil
	}
	return outputJSON(resp)
}
