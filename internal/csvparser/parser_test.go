package csvparser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeCSV(t, "issueTitle,title,pages\nVol 1,On Organs,1-10\nVol 1,On Valves,11-20\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("row count = %d, want 2", len(rs))
	}
	if rs[0].Line != 1 || rs[1].Line != 2 {
		t.Errorf("line numbers = %d, %d, want 1, 2", rs[0].Line, rs[1].Line)
	}
	if got := rs[1].Get("title"); got != "On Valves" {
		t.Errorf("row 2 title = %q, want On Valves", got)
	}
}

func TestParseQuotedFields(t *testing.T) {
	path := writeCSV(t, "title,abstract\n\"Salt, Pepper\",\"He said \"\"hi\"\".\"\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := rs[0].Get("title"); got != "Salt, Pepper" {
		t.Errorf("title = %q, want embedded comma preserved", got)
	}
	if got := rs[0].Get("abstract"); got != `He said "hi".` {
		t.Errorf("abstract = %q, want embedded quotes preserved", got)
	}
}

func TestParseStripsBOM(t *testing.T) {
	path := writeCSV(t, "\ufeffissueTitle,title\nVol 1,On Organs\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !rs[0].Has("issueTitle") {
		t.Error("BOM not stripped from first header")
	}
	if got := rs[0].Get("issueTitle"); got != "Vol 1" {
		t.Errorf("issueTitle = %q, want Vol 1", got)
	}
}

func TestParseShortRowLeavesColumnsAbsent(t *testing.T) {
	path := writeCSV(t, "title,abstract,keywords\nOn Organs,An abstract.\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	row := rs[0]
	if !row.Has("abstract") {
		t.Error("abstract should be present")
	}
	if row.Has("keywords") {
		t.Error("keywords should be absent from a short row, not empty")
	}
	if _, err := row.Require("keywords"); err == nil {
		t.Error("Require on absent column should error")
	}
}

func TestParseEmptyCellIsPresent(t *testing.T) {
	path := writeCSV(t, "title,keywords\nOn Organs,\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !rs[0].Has("keywords") {
		t.Error("empty trailing cell should still be a present column")
	}
}

func TestParseHeaderWhitespaceTrimmed(t *testing.T) {
	path := writeCSV(t, "title , pages\nOn Organs,1-10\n")

	rs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := rs[0].Get("title"); got != "On Organs" {
		t.Errorf("title = %q, want cell under trimmed header", got)
	}
	if got := rs[0].Get("pages"); got != "1-10" {
		t.Errorf("pages = %q, want 1-10", got)
	}
}

func TestParseEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	if _, err := Parse(path); err == nil {
		t.Error("Parse of empty file should error")
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Parse of missing file should error")
	}
}
