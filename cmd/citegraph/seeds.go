package main

import (
	"github.com/spf13/cobra"

	"github.com/citegraph/citegraph/internal/importer"
)

var (
	seedsPDFDir string
	seedsOut    string
)

func init() {
	seedsCmd.Flags().StringVar(&seedsPDFDir, "pdf-dir", "", "Directory of PDF files to scan for DOIs (required)")
	seedsCmd.Flags().StringVarP(&seedsOut, "output", "o", "", "Seed CSV file to write (required)")
	seedsCmd.MarkFlagRequired("pdf-dir")
	seedsCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(seedsCmd)
}

var seedsCmd = &cobra.Command{
	Use:   "seeds",
	Short: "Collect seed DOIs from a directory of PDFs",
	Long: `Scan a directory of PDF files, extract the DOI from the opening
pages of each, and write them as a seed CSV for citegraph build.

Files without a readable DOI are reported and skipped; the file is
still written when at least one DOI was found.

Examples:
  citegraph seeds --pdf-dir papers/ -o seeds.csv`,
	RunE: runSeeds,
}

func runSeeds(cmd *cobra.Command, args []string) error {
	ids, errs := importer.CollectFromPDFs(seedsPDFDir)

	skipped := make([]string, 0, len(errs))
	for _, err := range errs {
		skipped = append(skipped, err.Error())
	}

	if len(ids) == 0 {
		if humanOutput {
			for _, msg := range skipped {
				outputHuman("skipped: %s\n", msg)
			}
		}
		exitWithError(ExitDataError, "no DOIs found in %s (%d files skipped)", seedsPDFDir, len(skipped))
	}

	if err := importer.WriteSeedCSV(seedsOut, ids); err != nil {
		exitWithError(ExitError, "writing %s: %v", seedsOut, err)
	}

	resp := SeedsResponse{
		Status:  "written",
		Output:  seedsOut,
		Seeds:   len(ids),
		Skipped: skipped,
	}
	if humanOutput {
		outputHuman("Wrote %d seed DOIs to %s\n", resp.Seeds, resp.Output)
		for _, msg := range skipped {
			outputHuman("skipped: %s\n", msg)
		}
		return nil
	}
	return outputJSON(resp)
}
