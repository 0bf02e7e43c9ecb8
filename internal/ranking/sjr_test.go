package ranking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRankCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

const rankHeader = "Rank;Sourceid;Title;Type;Issn;SJR;SJR Best Quartile;H index\n"

func TestLoadSJRParsesJournals(t *testing.T) {
	dir := t.TempDir()
	writeRankCSV(t, dir, "2023.csv", rankHeader+
		"1;28773;Annals of Statistics;journal;00905364, 21688966;3,451;Q1;123\n"+
		"2;12001;Springer Series in Statistics;book series;01726838;2,100;Q1;80\n"+
		"3;12002;Defunct Journal;journal;11112222;;Q4;5\n"+
		"4;12003;Journal of Quality Technology;journal;0022-4065;0,82;Q2;77\n")

	r, err := LoadSJR(dir)
	if err != nil {
		t.Fatalf("LoadSJR: %v", err)
	}

	if got := r.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
	if score, ok := r.ScoreByISSN("0090-5364"); !ok || score != 3451 {
		t.Errorf("ScoreByISSN(0090-5364) = %d, %v", score, ok)
	}
	if score, ok := r.ScoreByISSN("21688966"); !ok || score != 3451 {
		t.Errorf("ScoreByISSN(21688966) = %d, %v", score, ok)
	}
	if score, ok := r.ScoreByTitle("ANNALS OF STATISTICS"); !ok || score != 3451 {
		t.Errorf("ScoreByTitle = %d, %v", score, ok)
	}
	if score, ok := r.ScoreByTitle("journal of quality technology"); !ok || score != 820 {
		t.Errorf("ScoreByTitle = %d, %v", score, ok)
	}
	if _, ok := r.ScoreByTitle("springer series in statistics"); ok {
		t.Error("book series entry should be filtered out")
	}
	if _, ok := r.ScoreByTitle("defunct journal"); ok {
		t.Error("entry without a rank value should be dropped")
	}
}

func TestLoadSJRFirstFileWinsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeRankCSV(t, dir, "2022.csv", rankHeader+
		"1;28773;Annals of Statistics;journal;00905364;3,000;Q1;120\n")
	writeRankCSV(t, dir, "2023.csv", rankHeader+
		"1;28773;Annals of Statistics;journal;00905364;3,451;Q1;123\n")

	r, err := LoadSJR(dir)
	if err != nil {
		t.Fatalf("LoadSJR: %v", err)
	}
	if score, _ := r.ScoreByISSN("00905364"); score != 3000 {
		t.Errorf("score = %d, want the 2022 value 3000", score)
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestLoadSJRMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeRankCSV(t, dir, "broken.csv", "Rank;Sourceid;Title;Type;Issn\n")

	if _, err := LoadSJR(dir); err == nil || !strings.Contains(err.Error(), "SJR") {
		t.Fatalf("err = %v, want missing SJR column", err)
	}
}

func TestLoadSJRNoFiles(t *testing.T) {
	if _, err := LoadSJR(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without CSV files")
	}
}

func TestParseSJR(t *testing.T) {
	tests := []struct {
		in    string
		score int
		ok    bool
	}{
		{"1,234", 1234, true},
		{"0,5", 500, true},
		{"12", 12000, true},
		{"", 0, false},
		{"-", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		score, ok := parseSJR(tt.in)
		if score != tt.score || ok != tt.ok {
			t.Errorf("parseSJR(%q) = %d, %v, want %d, %v", tt.in, score, ok, tt.score, tt.ok)
		}
	}
}

func TestNormalizeISSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1523-0864", "15230864"},
		{" 1092 612x", "1092612X"},
		{"0", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeISSN(tt.in); got != tt.want {
			t.Errorf("normalizeISSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
