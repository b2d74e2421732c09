package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openpress/ojsconvert/internal/config"
	"github.com/openpress/ojsconvert/internal/rows"
)

const sampleCSV = `issueTitle,issueVolume,issueNumber,issueYear,issueDatepublished,sectionTitle,sectionAbbrev,title,abstract,keywords,seq,pages,file1,fileGenre1,authorGivenname1,authorFamilyname1,authorAffiliation1,authorEmail1
Vol 1,1,1,2020,2020-06-01,Articles,ART,On Organs,First abstract.,music;organs,1,1-10,organ.pdf,Article Text,Ada,Lovelace,Analytical Society,ada@example.org
Vol 1,1,1,2020,2020-06-01,Reviews,REV,On Valves,Second abstract.,valves,2,11-20,valve.pdf,Article Text,Grace,Hopper,Navy,grace@example.org
Vol 2,2,1,2021,2021-06-01,Articles,ART,On Pipes,Third abstract.,pipes,1,1-12,pipe.pdf,Article Text,Edsger,Dijkstra,Eindhoven,ewd@example.org
`

func testConfig(t *testing.T, csv string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	input := filepath.Join(dir, "import.csv")
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(filepath.Join(dir, "no-config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "conversion.xml")
	cfg.Assets.BaseLocation = "http://assets.example.org/pdf/"
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	result := New(cfg).Run(context.Background())
	if !result.Success {
		t.Fatalf("Run() failed: %v", result.Error)
	}
	if result.Stats.Rows != 3 || result.Stats.Issues != 2 || result.Stats.Articles != 3 {
		t.Errorf("stats = %+v, want 3 rows, 2 issues, 3 articles", result.Stats)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	out := string(data)

	wantFragments := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns="http://pkp.sfu.ca"`,
		`xsi:schemaLocation="http://pkp.sfu.ca native.xsd"`,
		`<title>On Organs</title>`,
		`<keyword>organs</keyword>`,
		`section_ref="REV"`,
		`src="http://assets.example.org/pdf/pipe.pdf"`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q", fragment)
		}
	}
}

func TestRunMissingColumnWritesNothing(t *testing.T) {
	// The title column header is absent entirely.
	csv := strings.Replace(sampleCSV, ",title,", ",articleLabel,", 1)
	cfg := testConfig(t, csv)

	result := New(cfg).Run(context.Background())
	if result.Success {
		t.Fatal("Run() should fail when a required column is absent")
	}

	var missing *rows.MissingFieldError
	if !errors.As(result.Error, &missing) {
		t.Fatalf("error = %v, want MissingFieldError", result.Error)
	}
	if missing.Field != rows.FieldTitle {
		t.Errorf("missing field = %q, want %q", missing.Field, rows.FieldTitle)
	}

	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Error("no output file may exist after a failed run")
	}
}

func TestRunEmbedLocal(t *testing.T) {
	cfg := testConfig(t, sampleCSV)
	folder := t.TempDir()
	for _, name := range []string{"organ.pdf", "valve.pdf", "pipe.pdf"} {
		if err := os.WriteFile(filepath.Join(folder, name), []byte("%PDF "+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg.Assets.Mode = "embed-local"
	cfg.Assets.Folder = folder

	result := New(cfg).Run(context.Background())
	if !result.Success {
		t.Fatalf("Run() failed: %v", result.Error)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `<embed encoding="base64"`) {
		t.Error("embed-local output missing embed elements")
	}
	if strings.Contains(out, "<href") {
		t.Error("embed-local output must not contain href elements")
	}
}

func TestRunLegacyAuthorColumns(t *testing.T) {
	csv := strings.Replace(sampleCSV, "authorGivenname1,authorFamilyname1", "authorFirstname1,authorLastname1", 1)
	cfg := testConfig(t, csv)

	result := New(cfg).Run(context.Background())
	if !result.Success {
		t.Fatalf("Run() failed: %v", result.Error)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<givenname>Ada</givenname>") {
		t.Error("legacy firstname column not normalized onto givenname")
	}
}

func TestRunSeqScheme(t *testing.T) {
	cfg := testConfig(t, sampleCSV)
	cfg.IDScheme = "seq"

	result := New(cfg).Run(context.Background())
	if !result.Success {
		t.Fatalf("Run() failed: %v", result.Error)
	}

	data, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	// Row two carries seq 2, so its submission file takes id 2 under the
	// seq scheme rather than the run-wide counter value.
	if !strings.Contains(string(data), `<submission_file id="2"`) {
		t.Error("seq scheme not applied to submission file ids")
	}
}

func TestRunCheckSchema(t *testing.T) {
	cfg := testConfig(t, sampleCSV)

	schema, err := filepath.Abs("../../native.xsd")
	if err != nil {
		t.Fatal(err)
	}
	cfg.SchemaFile = schema

	c := New(cfg)
	c.CheckSchema = true

	result := c.Run(context.Background())
	if !result.Success {
		t.Fatalf("Run() with schema check failed: %v", result.Error)
	}
}

func TestConvertDirectRows(t *testing.T) {
	cfg := testConfig(t, sampleCSV)
	c := New(cfg)

	rs := []rows.Row{{
		Line: 1,
		Fields: map[string]string{
			rows.FieldIssueTitle:    "Vol 1",
			rows.FieldIssueVolume:   "1",
			rows.FieldIssueNumber:   "1",
			rows.FieldIssueYear:     "2020",
			rows.FieldIssueDate:     "2020-06-01",
			rows.FieldSectionTitle:  "Articles",
			rows.FieldSectionAbbrev: "ART",
			rows.FieldTitle:         "On Organs",
			rows.FieldAbstract:      "An abstract.",
			rows.FieldSeq:           "1",
			rows.FieldPages:         "1-10",
			rows.FieldFile:          "organ.pdf",
		},
	}}

	data, stats, err := c.Convert(context.Background(), rs)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if stats.Issues != 1 || stats.Articles != 1 {
		t.Errorf("stats = %+v, want 1 issue, 1 article", stats)
	}
	// The row has no keywords column, so the placeholder leaf is emitted.
	if !strings.Contains(string(data), "<keyword/>") {
		t.Error("missing placeholder keyword for row without keywords column")
	}
}
