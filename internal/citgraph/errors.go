package citgraph

import "errors"

var (
	// ErrQuotaExhausted reports that the retrieval quota ran out. The
	// build state has been checkpointed and the run can be resumed once
	// the quota resets.
	ErrQuotaExhausted = errors.New("retrieval quota exhausted")

	// ErrInterrupted reports that the build stopped on cancellation.
	// The state at the point of interruption has been checkpointed.
	ErrInterrupted = errors.New("build interrupted")

	// ErrInvalidDepth reports a negative target depth.
	ErrInvalidDepth = errors.New("invalid target depth")

	// ErrNotInitialized reports a resume attempt on a graph that never
	// completed its seed layer.
	ErrNotInitialized = errors.New("citation graph not initialized")
)
