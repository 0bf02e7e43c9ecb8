package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/ranking"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BuildResponse reports where a build or resume run ended up.
type BuildResponse struct {
	Status     string         `json:"status"`
	Checkpoint string         `json:"checkpoint"`
	Stats      citgraph.Stats `json:"stats"`
}

// ExportResponse reports a written export file.
type ExportResponse struct {
	Status string `json:"status"`
	Format string `json:"format"`
	Output string `json:"output"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
}

// RankResponse reports a ranking pass over the checkpointed graph.
type RankResponse struct {
	Status     string          `json:"status"`
	Checkpoint string          `json:"checkpoint"`
	Backup     string          `json:"backup,omitempty"`
	Summary    ranking.Summary `json:"summary"`
}

// SeedsResponse reports a seed file collected from a PDF directory.
type SeedsResponse struct {
	Status  string   `json:"status"`
	Output  string   `json:"output"`
	Seeds   int      `json:"seeds"`
	Skipped []string `json:"skipped,omitempty"`
}

// StatsResponse reports the state of the checkpointed graph.
type StatsResponse struct {
	Checkpoint string `json:"checkpoint"`
	citgraph.Stats
}

// BackupResponse reports a timestamped checkpoint copy.
type BackupResponse struct {
	Status string `json:"status"`
	Backup string `json:"backup"`
}

// printStatsHuman prints graph stats as aligned lines.
func printStatsHuman(s citgraph.Stats) {
	completion := "complete"
	if !s.IterationCompleted {
		completion = fmt.Sprintf("in progress, %d parents pending", s.PendingParents)
	}
	outputHuman("Nodes:       %d\n", s.Nodes)
	outputHuman("Edges:       %d\n", s.Edges)
	outputHuman("Depth:       %d (%s)\n", s.IterDepth, completion)
	outputHuman("Retrievals:  %d (%d failed)\n", s.TotalRetrievals, s.FailedRetrievals)

	if len(s.PapersPerDepth) > 0 {
		depths := make([]int, 0, len(s.PapersPerDepth))
		for d := range s.PapersPerDepth {
			depths = append(depths, d)
		}
		sort.Ints(depths)
		outputHuman("Per depth:  ")
		for _, d := range depths {
			outputHuman(" %d=%d", d, s.PapersPerDepth[d])
		}
		outputHuman("\n")
	}
}

// printBuildHuman prints a build outcome as aligned lines.
func printBuildHuman(r BuildResponse) {
	outputHuman("Status:      %s\n", r.Status)
	outputHuman("Checkpoint:  %s\n", r.Checkpoint)
	printStatsHuman(r.Stats)
}
