package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/storage"
)

var (
	backupInterim string
	backupGraph   string
)

func init() {
	backupCmd.Flags().StringVar(&backupInterim, "interim", "", "Directory for checkpoints and cache")
	backupCmd.Flags().StringVar(&backupGraph, "graph", "", "Graph name, names the checkpoint file")
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped copy of the checkpoint",
	Long: `Write a timestamped sibling copy of the current checkpoint without
touching the primary. Useful before experiments that rewrite the
graph in place.

Examples:
  citegraph backup
  citegraph backup --graph thesis`,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	checkpointer := resolveState(cfg, backupInterim, backupGraph)

	g, err := checkpointer.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCheckpoint) {
			exitWithError(ExitDataError, "%v: nothing to back up", err)
		}
		exitWithError(ExitError, "loading checkpoint: %v", err)
	}

	backup, err := checkpointer.SaveBackup(g, time.Now())
	if err != nil {
		exitWithError(ExitError, "writing backup: %v", err)
	}

	if humanOutput {
		outputHuman("Backup:      %s\n", backup)
		return nil
	}
	return outputJSON(BackupResponse{Status: "backed_up", Backup: backup})
}
