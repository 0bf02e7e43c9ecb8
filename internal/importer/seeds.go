// Package importer reads seed identifiers from external sources: CSV
// exports and directories of PDF full texts.
package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/citegraph/citegraph/internal/paper"
)

// bom is the UTF-8 byte order mark spreadsheet tools like to prepend.
const bom = "﻿"

// columnForIDType maps an identifier namespace to its seed CSV column.
func columnForIDType(t paper.IDType) (string, error) {
	switch t {
	case paper.IDTypeDOI:
		return "DOI", nil
	case paper.IDTypeEID:
		return "EID", nil
	}
	return "", fmt.Errorf("seed CSVs carry DOI or EID columns, not %q", t)
}

// ReadSeedCSV reads seed identifiers from the named column of a CSV
// file. Rows with a blank cell are skipped. A positive batchSize caps
// how many identifiers are returned; zero means no cap.
func ReadSeedCSV(path string, idType paper.IDType, batchSize int) ([]paper.Identifier, error) {
	if batchSize < 0 {
		return nil, fmt.Errorf("batch size must not be negative, got %d", batchSize)
	}
	column, err := columnForIDType(idType)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading seed CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("seed CSV %s is empty", path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("seed CSV %s has no %s column", path, column)
	}

	var ids []paper.Identifier
	for _, record := range records[1:] {
		if col >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[col])
		if value == "" {
			continue
		}
		ids = append(ids, paper.Identifier{Value: value, Type: idType})
		if batchSize > 0 && len(ids) == batchSize {
			break
		}
	}
	return ids, nil
}

// WriteSeedCSV writes identifiers as a single-column seed CSV. All
// identifiers must share one namespace; it names the header column.
func WriteSeedCSV(path string, ids []paper.Identifier) error {
	if len(ids) == 0 {
		return fmt.Errorf("no identifiers to write")
	}
	column, err := columnForIDType(ids[0].Type)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id.Type != ids[0].Type {
			return fmt.Errorf("mixed identifier types %s and %s in one seed CSV", ids[0].Type, id.Type)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating seed CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{column}); err != nil {
		return fmt.Errorf("writing seed CSV header: %w", err)
	}
	for _, id := range ids {
		if err := w.Write([]string{id.Value}); err != nil {
			return fmt.Errorf("writing seed CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing seed CSV: %w", err)
	}
	return nil
}
