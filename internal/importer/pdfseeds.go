package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/citegraph/citegraph/internal/paper"
	"github.com/citegraph/citegraph/internal/pdf"
)

// CollectFromPDFs scans a directory for PDF files and extracts a DOI
// from each. Files that cannot be read or carry no DOI are reported as
// errors without stopping the scan; duplicate DOIs are returned once,
// in the order first encountered.
func CollectFromPDFs(dir string) ([]paper.Identifier, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("reading PDF directory: %w", err)}
	}

	var ids []paper.Identifier
	var errs []error
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doi, err := pdf.ExtractDOI(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		if doi == "" {
			errs = append(errs, fmt.Errorf("%s: no DOI found", entry.Name()))
			continue
		}
		if seen[doi] {
			continue
		}
		seen[doi] = true
		ids = append(ids, paper.NewDOIIdentifier(paper.DOI(doi)))
	}
	return ids, errs
}
