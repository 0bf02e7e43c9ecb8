package retrieval

import (
	"context"
	"iter"
	"log/slog"
	"slices"

	"github.com/citegraph/citegraph/internal/paper"
)

// Resolution is one step of a reference expansion. Exactly one of the
// following holds: Child is non-nil (a resolved reference), Child is
// nil with Quota and Err unset (a miss already absorbed by the
// adapter), Quota is true (the run must halt and checkpoint), or Err
// is non-nil (an unexpected fault). Parent identifies the document
// whose reference produced the step, except on Err, where it may be
// zero when the fault precedes any parent.
type Resolution struct {
	Parent paper.Paper
	Child  *paper.Paper
	Quota  bool
	Err    error
}

// Resolver expands the references of a set of parent documents into
// retrieved child documents, one at a time.
type Resolver struct {
	adapter *Adapter
	logger  *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger for expansion diagnostics.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver builds a Resolver on top of an Adapter.
func NewResolver(a *Adapter, opts ...ResolverOption) *Resolver {
	r := &Resolver{adapter: a}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Resolve returns a lazy sequence of reference resolutions for the
// given parents at the given iteration depth. Parents are visited in
// ascending Scopus ID order and each parent's references in list
// order, so an interrupted run revisits work in a stable order.
// Nothing is fetched until the sequence is consumed, and abandoning
// the sequence stops all further retrieval. A quota step is always the
// final element.
func (r *Resolver) Resolve(ctx context.Context, parents paper.Set, iterDepth int) iter.Seq[Resolution] {
	return func(yield func(Resolution) bool) {
		for _, parent := range sortedParents(parents) {
			if len(parent.Refs) == 0 {
				continue
			}
			r.logger.Debug("expanding references",
				"parent", parent.ScopusID, "refs", len(parent.Refs), "depth", iterDepth)
			for _, ref := range parent.Refs {
				if err := ctx.Err(); err != nil {
					yield(Resolution{Parent: parent, Err: err})
					return
				}
				child, quota, err := r.adapter.FetchPaper(ctx, ref.ScopusID.String(), paper.IDTypeScopusID, iterDepth)
				if err != nil {
					yield(Resolution{Parent: parent, Err: err})
					return
				}
				if quota {
					yield(Resolution{Parent: parent, Quota: true})
					return
				}
				if !yield(Resolution{Parent: parent, Child: child}) {
					return
				}
			}
		}
	}
}

// sortedParents flattens a set into ascending Scopus ID order.
func sortedParents(parents paper.Set) []paper.Paper {
	out := make([]paper.Paper, 0, len(parents))
	for _, p := range parents {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b paper.Paper) int {
		switch {
		case a.ScopusID < b.ScopusID:
			return -1
		case a.ScopusID > b.ScopusID:
			return 1
		default:
			return 0
		}
	})
	return out
}
