package retrieval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/scopus"
)

type fetchResult struct {
	p   *paper.Paper
	err error
}

// scriptedFetcher replays a fixed sequence of outcomes and records how
// many calls it received.
type scriptedFetcher struct {
	script []fetchResult
	calls  int
}

func (f *scriptedFetcher) GetPaper(ctx context.Context, id string, idType paper.IDType) (*paper.Paper, error) {
	if f.calls >= len(f.script) {
		return nil, fmt.Errorf("unscripted call %d for %s", f.calls, id)
	}
	res := f.script[f.calls]
	f.calls++
	return res.p, res.err
}

func testPaper(id paper.ScopusID, title string) *paper.Paper {
	return &paper.Paper{
		ScopusID: id,
		Title:    title,
		EID:      fmt.Sprintf("2-s2.0-%d", id),
	}
}

func newTestAdapter(t *testing.T, f Fetcher, opts ...AdapterOption) *Adapter {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAdapter(f, append([]AdapterOption{WithLogger(quiet)}, opts...)...)
}

func TestAdapterFetchPaperSuccess(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{{p: testPaper(42, "A Title")}}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "42", paper.IDTypeScopusID, 3)
	if err != nil {
		t.Fatalf("FetchPaper: %v", err)
	}
	if quota {
		t.Fatal("unexpected quota signal")
	}
	if p == nil {
		t.Fatal("expected a paper")
	}
	if p.IterDepth != 3 {
		t.Errorf("IterDepth = %d, want 3", p.IterDepth)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestAdapterFetchPaperRetriesNotFound(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{
		{err: scopus.ErrNotFound},
		{err: scopus.ErrNotFound},
		{p: testPaper(7, "Late Arrival")},
	}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "7", paper.IDTypeScopusID, 1)
	if err != nil || quota {
		t.Fatalf("FetchPaper = (_, %v, %v), want success", quota, err)
	}
	if p == nil || p.Title != "Late Arrival" {
		t.Fatalf("paper = %+v, want the retried document", p)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
}

func TestAdapterFetchPaperNotFoundBecomesMiss(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{
		{err: scopus.ErrNotFound},
		{err: scopus.ErrNotFound},
		{err: scopus.ErrNotFound},
	}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if err != nil {
		t.Fatalf("FetchPaper: %v", err)
	}
	if quota {
		t.Fatal("unexpected quota signal")
	}
	if p != nil {
		t.Fatalf("paper = %+v, want miss", p)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want initial attempt plus %d retries", f.calls, DefaultMaxRetries)
	}
}

func TestAdapterFetchPaperQuotaNeverRetries(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{{err: scopus.ErrQuotaExceeded}}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if err != nil {
		t.Fatalf("FetchPaper: %v", err)
	}
	if !quota {
		t.Fatal("expected quota signal")
	}
	if p != nil {
		t.Fatalf("paper = %+v, want nil on quota", p)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestAdapterFetchPaperTransientBecomesMiss(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{
		{err: fmt.Errorf("%w: connection reset", scopus.ErrNetworkError)},
	}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if err != nil || quota {
		t.Fatalf("FetchPaper = (_, %v, %v), want silent miss", quota, err)
	}
	if p != nil {
		t.Fatalf("paper = %+v, want nil", p)
	}
}

func TestAdapterFetchPaperMissingTitleBecomesMiss(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{{p: testPaper(11, "")}}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "11", paper.IDTypeScopusID, 1)
	if err != nil || quota {
		t.Fatalf("FetchPaper = (_, %v, %v), want silent miss", quota, err)
	}
	if p != nil {
		t.Fatalf("paper = %+v, want nil for untitled document", p)
	}
}

func TestAdapterFetchPaperUnexpectedPropagates(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{
		{err: fmt.Errorf("%w: bad key", scopus.ErrAuthError)},
	}}
	a := newTestAdapter(t, f)

	p, quota, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if !errors.Is(err, scopus.ErrAuthError) {
		t.Fatalf("err = %v, want auth failure to propagate", err)
	}
	if p != nil || quota {
		t.Fatalf("FetchPaper = (%v, %v, _), want (nil, false, _)", p, quota)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestAdapterFetchPaperCancellationPropagates(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{{err: context.Canceled}}}
	a := newTestAdapter(t, f)

	_, _, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled to propagate", err)
	}
}

func TestAdapterWithMaxRetries(t *testing.T) {
	f := &scriptedFetcher{script: []fetchResult{{err: scopus.ErrNotFound}}}
	a := newTestAdapter(t, f, WithMaxRetries(0))

	p, _, err := a.FetchPaper(context.Background(), "9", paper.IDTypeScopusID, 1)
	if err != nil || p != nil {
		t.Fatalf("FetchPaper = (%v, _, %v), want immediate miss", p, err)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want no retries", f.calls)
	}
}

func TestRetryOn(t *testing.T) {
	boom := errors.New("boom")

	calls := 0
	err := retryOn(2, func(error) bool { return true }, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want last failure", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	calls = 0
	err = retryOn(5, func(error) bool { return false }, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("retryOn with rejecting predicate: calls = %d, err = %v", calls, err)
	}
}
