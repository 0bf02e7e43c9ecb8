package citgraph

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/retrieval"
)

// PaperFetcher retrieves one document and classifies the outcome. A
// true second return means the retrieval quota is exhausted; a nil
// paper with a nil error is a miss the caller should count and skip.
type PaperFetcher interface {
	FetchPaper(ctx context.Context, id string, idType paper.IDType, iterDepth int) (*paper.Paper, bool, error)
}

// ReferenceResolver lazily expands the references of a parent set into
// retrieved child documents.
type ReferenceResolver interface {
	Resolve(ctx context.Context, parents paper.Set, iterDepth int) iter.Seq[retrieval.Resolution]
}

// Saver persists a build state so it can be resumed later.
type Saver interface {
	Save(g *CitationGraph) error
}

// Builder expands a citation graph breadth-first, one depth layer at a
// time. Every halting condition, whether quota exhaustion,
// cancellation, or an unexpected fault, checkpoints the current state
// first, so a later run picks up where this one stopped.
type Builder struct {
	graph    *CitationGraph
	fetcher  PaperFetcher
	resolver ReferenceResolver
	saver    Saver
	logger   *slog.Logger
	weighted bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSaver sets the checkpoint store. Without one the build runs
// entirely in memory and halting conditions lose the partial state.
func WithSaver(s Saver) BuilderOption {
	return func(b *Builder) {
		b.saver = s
	}
}

// WithLogger sets the logger for build progress.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithEdgeWeights controls whether repeated citations accumulate edge
// weight. Enabled by default.
func WithEdgeWeights(on bool) BuilderOption {
	return func(b *Builder) {
		b.weighted = on
	}
}

// NewBuilder wires a builder around an existing graph state. Passing
// nil starts from an empty graph.
func NewBuilder(g *CitationGraph, fetcher PaperFetcher, resolver ReferenceResolver, opts ...BuilderOption) *Builder {
	b := &Builder{
		graph:    g,
		fetcher:  fetcher,
		resolver: resolver,
		weighted: true,
	}
	if b.graph == nil {
		b.graph = New()
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Graph returns the build state the builder operates on.
func (b *Builder) Graph() *CitationGraph { return b.graph }

// BuildFromSeeds fetches the seed documents and expands the graph to
// the target depth. The depth is validated before anything is fetched.
func (b *Builder) BuildFromSeeds(ctx context.Context, seeds []paper.Identifier, targetDepth int) error {
	if targetDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, targetDepth)
	}
	if err := b.Initialize(ctx, seeds); err != nil {
		return err
	}
	return b.ResumeBuild(ctx, targetDepth)
}

// Initialize retrieves the seed documents and records them as depth
// zero. Seeds that cannot be retrieved are counted as failures and
// skipped; the layer is checkpointed once complete.
func (b *Builder) Initialize(ctx context.Context, seeds []paper.Identifier) error {
	g := b.graph
	b.logger.Info("fetching seed documents", "seeds", len(seeds))

	layer := paper.NewSet()
	missed := 0
	for _, seed := range seeds {
		p, quota, err := b.fetcher.FetchPaper(ctx, seed.Value, seed.Type, 0)
		if err != nil {
			return b.fail(fmt.Errorf("fetch seed %s: %w", seed, err))
		}
		if quota {
			return b.haltOnQuota()
		}
		g.TotalRetrievals++
		if p == nil {
			g.FailedRetrievals++
			missed++
			continue
		}
		g.AddNode(NodeFromPaper(*p))
		layer.Add(*p)
	}

	g.PapersByDepth[0] = layer
	g.IterDepth = 0
	g.IterationCompleted = true
	b.logger.Info("seed layer complete", "documents", len(layer), "missed", missed)

	if err := b.persist(); err != nil {
		return fmt.Errorf("checkpoint seed layer: %w", err)
	}
	return nil
}

// ResumeBuild expands the graph until the target depth is reached and
// no layer is left mid-flight. It works equally on a freshly seeded
// graph and on one restored from a checkpoint; an interrupted layer is
// finished before any new one starts. Each completed layer is
// checkpointed before the next begins.
func (b *Builder) ResumeBuild(ctx context.Context, targetDepth int) error {
	if targetDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, targetDepth)
	}
	g := b.graph
	if _, ok := g.PapersByDepth[0]; !ok {
		return ErrNotInitialized
	}

	for g.IterDepth < targetDepth || !g.IterationCompleted {
		if err := b.runLayer(ctx); err != nil {
			return err
		}
		if err := b.persist(); err != nil {
			return fmt.Errorf("checkpoint layer %d: %w", g.IterDepth, err)
		}
	}
	return nil
}

// runLayer expands one depth layer. A completed previous iteration
// starts fresh from the last layer's documents; otherwise the restored
// frontiers are picked up as-is, after discarding the out-edges of
// every parent still pending so its re-expansion starts clean.
func (b *Builder) runLayer(ctx context.Context) error {
	g := b.graph
	depth := g.IterDepth + 1

	if g.IterationCompleted {
		g.ParentFrontier = g.PapersByDepth[g.IterDepth].Clone()
		g.ChildFrontier = paper.NewSet()
		g.IterationCompleted = false
		b.logger.Info("expanding layer", "depth", depth, "parents", len(g.ParentFrontier))
	} else {
		cleared := 0
		for _, parent := range g.ParentFrontier {
			cleared += g.RemoveOutEdges(parent.ScopusID)
		}
		b.logger.Info("resuming interrupted layer",
			"depth", depth, "parents", len(g.ParentFrontier), "cleared_edges", cleared)
	}

	// The frontier shrinks at parent boundaries: once the resolver
	// moves on to the next parent, the previous one is fully expanded
	// and a checkpoint no longer needs to revisit it.
	var (
		prev     paper.Key
		havePrev bool
	)
	for res := range b.resolver.Resolve(ctx, g.ParentFrontier, depth) {
		if res.Err != nil {
			return b.fail(res.Err)
		}
		if res.Quota {
			return b.haltOnQuota()
		}

		k := res.Parent.Key()
		if havePrev && prev != k {
			g.ParentFrontier.Remove(prev)
		}
		prev, havePrev = k, true

		g.TotalRetrievals++
		if res.Child == nil {
			g.FailedRetrievals++
			continue
		}

		child := *res.Child
		if !g.ChildFrontier.Contains(child.Key()) && !g.HasNode(child.ScopusID) {
			g.AddNode(NodeFromPaper(child))
			g.ChildFrontier.Add(child)
		}
		if b.weighted {
			g.AddWeightedEdge(res.Parent.ScopusID, child.ScopusID, 1)
		} else {
			g.AddEdge(res.Parent.ScopusID, child.ScopusID)
		}
	}

	if havePrev {
		g.ParentFrontier.Remove(prev)
	}
	g.PapersByDepth[depth] = g.ChildFrontier
	g.ParentFrontier = paper.NewSet()
	g.ChildFrontier = paper.NewSet()
	g.IterDepth = depth
	g.IterationCompleted = true
	b.logger.Info("layer complete",
		"depth", depth,
		"new_documents", len(g.PapersByDepth[depth]),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
	return nil
}

// persist saves the current state through the configured saver.
func (b *Builder) persist() error {
	if b.saver == nil {
		return nil
	}
	return b.saver.Save(b.graph)
}

// haltOnQuota checkpoints and surfaces quota exhaustion. A checkpoint
// failure is returned instead, since the run is then not cleanly
// resumable.
func (b *Builder) haltOnQuota() error {
	b.logger.Warn("quota exhausted, checkpointing build state")
	if err := b.persist(); err != nil {
		return fmt.Errorf("checkpoint before quota halt: %w", err)
	}
	return ErrQuotaExhausted
}

// fail checkpoints best-effort and maps cancellation onto
// ErrInterrupted so callers can tell a deliberate stop from a fault.
func (b *Builder) fail(err error) error {
	if perr := b.persist(); perr != nil {
		b.logger.Error("checkpoint on failure", "error", perr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	}
	return err
}
