package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/storage"
)

var (
	resumeDepth   int
	resumeInterim string
	resumeGraph   string
)

func init() {
	resumeCmd.Flags().IntVar(&resumeDepth, "depth", -1, "Target expansion depth")
	resumeCmd.Flags().StringVar(&resumeInterim, "interim", "", "Directory for checkpoints and cache")
	resumeCmd.Flags().StringVar(&resumeGraph, "graph", "", "Graph name, names the checkpoint file")
	rootCmd.AddCommand(resumeCmd)
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an interrupted or unfinished build",
	Long: `Resume a build from its checkpoint, finishing any half-done layer
and continuing expansion up to the target depth.

A layer that was cut short by quota exhaustion or an interrupt is
re-run from its pending parents; papers already in the graph are
not duplicated. Resuming a finished graph at the same depth is a
no-op.

Examples:
  citegraph resume --depth 2
  citegraph resume --depth 3 --graph thesis`,
	RunE: runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	if cmd.Flags().Changed("depth") {
		cfg.TargetDepth = resumeDepth
	}
	checkpointer := resolveState(cfg, resumeInterim, resumeGraph)

	g, err := checkpointer.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCheckpoint) {
			exitWithError(ExitDataError, "%v: run citegraph build first", err)
		}
		exitWithError(ExitError, "loading checkpoint: %v", err)
	}
	requireAPIKey()

	fetcher, resolver, cleanup := newRetrievalStack(cfg)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := citgraph.NewBuilder(g, fetcher, resolver,
		citgraph.WithSaver(checkpointer),
		citgraph.WithLogger(slog.Default().With("component", "builder")),
		citgraph.WithEdgeWeights(cfg.Weighted()))

	buildErr := builder.ResumeBuild(ctx, cfg.TargetDepth)
	return reportBuild(builder.Graph(), checkpointer.Path(), buildErr)
}
