package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/citgraph"
	"github.com/citegraph/citegraph/internal/export"
	"github.com/citegraph/citegraph/internal/storage"
	"github.com/citegraph/citegraph/internal/viz"
)

var (
	exportFormat  string
	exportOut     string
	exportLayout  string
	exportInterim string
	exportGraph   string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json, cytoscape, html, or bibtex")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().StringVar(&exportLayout, "layout", "force", "Graph layout for html: force, circle, or grid")
	exportCmd.Flags().StringVar(&exportInterim, "interim", "", "Directory for checkpoints and cache")
	exportCmd.Flags().StringVar(&exportGraph, "graph", "", "Graph name, names the checkpoint file")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph for visualization tools",
	Long: `Export the checkpointed graph in a visualization-friendly form.

Node identifiers are stringified so JavaScript tools don't mangle
the large Scopus integers, and the title attribute is carried as
paper_title to stay clear of reserved attribute names.

Examples:
  citegraph export --format json -o graph.json
  citegraph export --format cytoscape | jq .nodes
  citegraph export --format html --layout circle -o graph.html
  citegraph export --format bibtex -o graph.bib`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadProjectConfig()
	checkpointer := resolveState(cfg, exportInterim, exportGraph)

	g, err := checkpointer.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoCheckpoint) {
			exitWithError(ExitDataError, "%v: run citegraph build first", err)
		}
		exitWithError(ExitError, "loading checkpoint: %v", err)
	}

	data := viz.FromGraph(g)
	payload, err := renderExport(g, data, exportFormat)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if exportOut == "" {
		// Payload goes to stdout as-is, never wrapped in a response.
		fmt.Print(payload)
		return nil
	}

	if err := os.WriteFile(exportOut, []byte(payload), 0o644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOut, err)
	}

	resp := ExportResponse{
		Status: "exported",
		Format: exportFormat,
		Output: exportOut,
		Nodes:  len(data.Nodes),
		Edges:  len(data.Edges),
	}
	if humanOutput {
		outputHuman("Exported %d nodes and %d edges to %s (%s)\n",
			resp.Nodes, resp.Edges, resp.Output, resp.Format)
		return nil
	}
	return outputJSON(resp)
}

func renderExport(g *citgraph.CitationGraph, data *viz.GraphData, format string) (string, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding graph: %w", err)
		}
		return string(out) + "\n", nil
	case "cytoscape":
		out, err := data.ToCytoscapeJSON()
		if err != nil {
			return "", fmt.Errorf("encoding graph: %w", err)
		}
		return out + "\n", nil
	case "html":
		return viz.GenerateHTML(data, viz.HTMLOptions{Layout: exportLayout})
	case "bibtex":
		return export.GraphToBibTeX(g), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: json, cytoscape, html, bibtex)", format)
	}
}
