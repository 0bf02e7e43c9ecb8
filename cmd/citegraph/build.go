package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/cache"
	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/config"
	"github.com/citegraph/citegraph/internal/importer"
	"github.com/citegraph/citegraph/internal/retrieval"
	"github.com/citegraph/citegraph/internal/scopus"
)

var (
	buildSeeds   string
	buildIDType  string
	buildDepth   int
	buildInterim string
	buildGraph   string
	buildBatch   int
	buildWeights bool
	buildForce   bool
)

func init() {
	// Load .env file if present (for SCOPUS_API_KEY)
	_ = godotenv.Load()

	buildCmd.Flags().StringVar(&buildSeeds, "seeds", "", "CSV file with seed identifiers (required)")
	buildCmd.Flags().StringVar(&buildIDType, "id-type", "", "Seed identifier column: doi or eid")
	buildCmd.Flags().IntVar(&buildDepth, "depth", -1, "Target expansion depth")
	buildCmd.Flags().StringVar(&buildInterim, "interim", "", "Directory for checkpoints and cache")
	buildCmd.Flags().StringVar(&buildGraph, "graph", "", "Graph name, names the checkpoint file")
	buildCmd.Flags().IntVar(&buildBatch, "batch", 0, "Cap on the number of seeds read, 0 for all")
	buildCmd.Flags().BoolVar(&buildWeights, "weights", true, "Accumulate duplicate citations as edge weights")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Start over even if a checkpoint exists")
	buildCmd.MarkFlagRequired("seeds")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a citation graph from a seed file",
	Long: `Build a citation graph by fetching the seed papers and expanding
their references breadth-first up to the target depth.

The graph is checkpointed after the seed layer and after every
completed expansion layer. Quota exhaustion and Ctrl-C both halt
with a checkpoint; continue later with citegraph resume.

Examples:
  citegraph build --seeds seeds.csv --depth 2
  citegraph build --seeds seeds.csv --id-type eid --batch 50
  citegraph build --seeds seeds.csv --interim /data/run1 --graph thesis`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	applyBuildFlags(cmd, cfg)
	checkpointer := resolveState(cfg, buildInterim, buildGraph)

	if !buildForce {
		if _, err := os.Stat(checkpointer.Path()); err == nil {
			exitWithError(ExitDataError,
				"checkpoint %s already exists: use citegraph resume to continue it, or --force to start over",
				checkpointer.Path())
		}
	}

	seeds, err := importer.ReadSeedCSV(buildSeeds, cfg.SeedIDType(), cfg.BatchSize)
	if err != nil {
		exitWithError(ExitDataError, "reading seeds: %v", err)
	}
	if len(seeds) == 0 {
		exitWithError(ExitDataError, "no seed identifiers in %s", buildSeeds)
	}
	requireAPIKey()

	fetcher, resolver, cleanup := newRetrievalStack(cfg)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := citgraph.NewBuilder(nil, fetcher, resolver,
		citgraph.WithSaver(checkpointer),
		citgraph.WithLogger(slog.Default().With("component", "builder")),
		citgraph.WithEdgeWeights(cfg.Weighted()))

	buildErr := builder.BuildFromSeeds(ctx, seeds, cfg.TargetDepth)
	return reportBuild(builder.Graph(), checkpointer.Path(), buildErr)
}

// applyBuildFlags lets explicit flags override the configuration file.
func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("id-type") {
		cfg.IDType = buildIDType
		if err := cfg.Validate(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}
	if cmd.Flags().Changed("depth") {
		cfg.TargetDepth = buildDepth
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize = buildBatch
	}
	if cmd.Flags().Changed("weights") {
		cfg.Unweighted = !buildWeights
	}
}

// requireAPIKey exits early when no Scopus API key is configured,
// before any state is touched.
func requireAPIKey() {
	if config.APIKey() == "" {
		exitWithError(ExitConfigError,
			"%s is not set: export it or put it in a .env file", config.APIKeyEnv)
	}
}

// newRetrievalStack wires the Scopus client, response cache, retry
// adapter and reference resolver for a build run. A cache that cannot
// be opened is logged and skipped rather than failing the run.
func newRetrievalStack(cfg *config.Config) (*retrieval.Adapter, *retrieval.Resolver, func()) {
	logger := slog.Default()
	cleanup := func() {}

	opts := []scopus.ClientOption{
		scopus.WithLogger(logger.With("component", "scopus")),
	}
	store, err := cache.Open(cfg.CachePath(), cache.WithLogger(logger.With("component", "cache")))
	if err != nil {
		logger.Warn("response cache unavailable, continuing without it",
			"dir", cfg.CachePath(), "error", err)
	} else {
		opts = append(opts, scopus.WithCache(store))
		cleanup = func() { store.Close() }
	}

	client := scopus.NewClient(opts...)
	adapter := retrieval.NewAdapter(client,
		retrieval.WithLogger(logger.With("component", "retrieval")))
	resolver := retrieval.NewResolver(adapter,
		retrieval.WithResolverLogger(logger.With("component", "resolver")))
	return adapter, resolver, cleanup
}

// reportBuild prints the outcome of a build or resume run and exits
// with the matching code. Quota exhaustion and interruption are
// reported as checkpointed halts, not hidden behind a bare error.
func reportBuild(g *citgraph.CitationGraph, checkpointPath string, buildErr error) error {
	code := exitCodeForBuildErr(buildErr)
	switch {
	case buildErr == nil:
	case errors.Is(buildErr, citgraph.ErrQuotaExhausted):
	case errors.Is(buildErr, citgraph.ErrInterrupted):
	default:
		exitWithError(code, "%v", buildErr)
	}

	resp := BuildResponse{
		Status:     buildStatus(buildErr),
		Checkpoint: checkpointPath,
		Stats:      g.Stats(),
	}
	if humanOutput {
		printBuildHuman(resp)
	} else {
		outputJSON(resp)
	}
	if code != ExitSuccess {
		os.Exit(code)
	}
	return nil
}

func buildStatus(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, citgraph.ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, citgraph.ErrInterrupted):
		return "interrupted"
	default:
		return "failed"
	}
}

func exitCodeForBuildErr(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, citgraph.ErrQuotaExhausted):
		return ExitQuota
	case errors.Is(err, citgraph.ErrInterrupted):
		return ExitInterrupted
	case errors.Is(err, citgraph.ErrInvalidDepth):
		return ExitConfigError
	case errors.Is(err, citgraph.ErrNotInitialized):
		return ExitDataError
	default:
		return ExitError
	}
}
