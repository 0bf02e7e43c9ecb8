// Package retrieval wraps the Scopus client with the retry and
// quota-signaling policy the graph builder depends on. All recoverable
// conditions are resolved here and turned into nil-paper results; only
// quota exhaustion and truly unexpected faults reach the caller.
package retrieval

import (
	"context"
	"errors"
	"log/slog"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/scopus"
)

// DefaultMaxRetries is how many extra attempts follow a not-found
// response before the document is written off as a miss.
const DefaultMaxRetries = 2

// Fetcher is the slice of the Scopus client the adapter consumes.
type Fetcher interface {
	GetPaper(ctx context.Context, id string, idType paper.IDType) (*paper.Paper, error)
}

// Adapter classifies retrieval outcomes for the graph builder.
type Adapter struct {
	fetcher    Fetcher
	maxRetries int
	logger     *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithMaxRetries sets the extra attempt budget for not-found responses.
func WithMaxRetries(n int) AdapterOption {
	return func(a *Adapter) {
		a.maxRetries = n
	}
}

// WithLogger sets the logger for retrieval diagnostics.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// NewAdapter wraps a Fetcher with the build's retrieval policy.
func NewAdapter(f Fetcher, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		fetcher:    f,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// FetchPaper retrieves one document and classifies the outcome.
//
// A true quota return means the remote budget is spent: the build must
// checkpoint and halt, and the signal is never swallowed. A nil paper
// with a nil error is a miss (not found after retries, transient fault,
// or a record without a title); the counter bookkeeping is the
// caller's. A non-nil error is reserved for faults the builder cannot
// absorb, including cancellation.
func (a *Adapter) FetchPaper(ctx context.Context, id string, idType paper.IDType, iterDepth int) (*paper.Paper, bool, error) {
	var p *paper.Paper

	attempt := 0
	err := retryOn(a.maxRetries, func(err error) bool {
		if !scopus.IsNotFound(err) {
			return false
		}
		attempt++
		a.logger.Info("document not found, retrying",
			"id", id, "id_type", idType, "attempt", attempt, "max", a.maxRetries)
		return true
	}, func() error {
		var err error
		p, err = a.fetcher.GetPaper(ctx, id, idType)
		return err
	})

	switch {
	case err == nil:
	case scopus.IsQuotaExceeded(err):
		a.logger.Warn("retrieval quota exhausted", "id", id)
		return nil, true, nil
	case scopus.IsNotFound(err):
		a.logger.Info("document not found", "id", id, "id_type", idType)
		return nil, false, nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return nil, false, err
	case scopus.IsTransient(err):
		a.logger.Warn("transient retrieval fault", "id", id, "error", err)
		return nil, false, nil
	default:
		return nil, false, err
	}

	if p.Title == "" {
		a.logger.Warn("document has no title, treated as a miss", "id", id)
		return nil, false, nil
	}

	p.IterDepth = iterDepth
	return p, false, nil
}

// retryOn runs op up to 1+extra times, retrying only while shouldRetry
// reports true for the returned error. The last error is returned when
// the budget runs out.
func retryOn(extra int, shouldRetry func(error) bool, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || attempt >= extra || !shouldRetry(err) {
			return err
		}
	}
}
