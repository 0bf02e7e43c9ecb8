// Package ranking assigns journal rank scores to graph nodes from
// SCImago Journal Rank exports.
package ranking

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ScoreMultiplier scales the fractional SJR indicator into an integer
// score, so 1,234 becomes 1234.
const ScoreMultiplier = 1000

// RankSource is an in-memory index of journal rank scores, looked up
// by ISSN or by title.
type RankSource struct {
	byISSN  map[string]int
	byTitle map[string]int
	titles  []string
}

// LoadSJR reads every SCImago CSV export in dir into one rank source.
// The exports are semicolon-separated with decimal-comma numbers; only
// journal entries with a rank value are kept, and a source appearing
// in several exports is taken from the first file that has it.
func LoadSJR(dir string) (*RankSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rank directory: %w", err)
	}

	r := &RankSource{
		byISSN:  make(map[string]int),
		byTitle: make(map[string]int),
	}
	seen := make(map[string]bool)

	files := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		files++
		path := filepath.Join(dir, entry.Name())
		if err := r.loadFile(path, seen); err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
	}
	if files == 0 {
		return nil, fmt.Errorf("no rank CSV files in %s", dir)
	}
	return r, nil
}

func (r *RankSource) loadFile(path string, seen map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("empty CSV")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Sourceid", "Title", "Type", "Issn", "SJR"} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("missing column %q", required)
		}
	}

	for _, rec := range records[1:] {
		get := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		if get("Type") != "journal" {
			continue
		}
		sourceID := get("Sourceid")
		if sourceID == "" || seen[sourceID] {
			continue
		}
		score, ok := parseSJR(get("SJR"))
		if !ok {
			continue
		}
		seen[sourceID] = true

		title := strings.ToLower(get("Title"))
		if title != "" {
			if _, dup := r.byTitle[title]; !dup {
				r.byTitle[title] = score
				r.titles = append(r.titles, title)
			}
		}
		for _, issn := range strings.Split(get("Issn"), ",") {
			issn = normalizeISSN(issn)
			if issn == "" {
				continue
			}
			if _, dup := r.byISSN[issn]; !dup {
				r.byISSN[issn] = score
			}
		}
	}
	return nil
}

// parseSJR converts a decimal-comma rank value like "1,234" into an
// integer score. Blank and dash cells mean the journal is unranked.
func parseSJR(s string) (int, bool) {
	if s == "" || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(f * ScoreMultiplier)), true
}

// normalizeISSN strips separators so "1523-0864" and "15230864 "
// compare equal.
func normalizeISSN(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "0" {
		return ""
	}
	return s
}

// ScoreByISSN looks up a journal score by ISSN in any common format.
func (r *RankSource) ScoreByISSN(issn string) (int, bool) {
	score, ok := r.byISSN[normalizeISSN(issn)]
	return score, ok
}

// ScoreByTitle looks up a journal score by exact title,
// case-insensitively.
func (r *RankSource) ScoreByTitle(title string) (int, bool) {
	score, ok := r.byTitle[strings.ToLower(strings.TrimSpace(title))]
	return score, ok
}

// Titles returns the indexed journal titles, lowercased, in load
// order.
func (r *RankSource) Titles() []string {
	return r.titles
}

// Len returns how many journals are indexed by title.
func (r *RankSource) Len() int {
	return len(r.titles)
}
