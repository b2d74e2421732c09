// =============================================================================
// ojsconvert - Converter Module
// =============================================================================
//
// The converter orchestrates the whole pipeline for one run:
//
//   1. Parse the input spreadsheet (CSV or XLSX by extension)
//   2. Normalize legacy column names onto the canonical set
//   3. Group rows into the issue/section/article hierarchy
//   4. Resolve binary assets (hrefs, or bytes for embedding)
//   5. Build the native-XML element tree
//   6. Optionally validate against native.xsd
//   7. Serialize and atomically write the output
//
// The run is all-or-nothing: any error aborts before output is written.
// Data flows strictly one way; the whole input is materialized, grouped
// and rendered in memory before any output exists.
//
// =============================================================================

package converter

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jacoelho/xsd"

	"github.com/openpress/ojsconvert/internal/config"
	"github.com/openpress/ojsconvert/internal/csvparser"
	"github.com/openpress/ojsconvert/internal/document"
	"github.com/openpress/ojsconvert/internal/hierarchy"
	"github.com/openpress/ojsconvert/internal/rows"
	"github.com/openpress/ojsconvert/internal/xlsxparser"
	"github.com/openpress/ojsconvert/internal/xmlwriter"
	"github.com/openpress/ojsconvert/pkg/utils"
)

// Logger is the logging interface the converter writes to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Result is the outcome of one run.
type Result struct {
	// InputFile is the spreadsheet that was processed.
	InputFile string

	// OutputFile is the written XML document; empty when the run failed.
	OutputFile string

	// Success indicates whether the run completed.
	Success bool

	// Error is set when the run failed.
	Error error

	// Stats holds processing counts.
	Stats Stats
}

// Stats holds counts reported to the invoking wrapper.
type Stats struct {
	Rows           int
	Issues         int
	Articles       int
	ProcessingTime time.Duration
}

// Converter runs the conversion pipeline for a configuration.
type Converter struct {
	cfg    *config.Config
	logger Logger

	// CheckSchema validates the serialized document against the configured
	// native.xsd before anything is written.
	CheckSchema bool
}

// New creates a Converter for the given configuration.
func New(cfg *config.Config) *Converter {
	return &Converter{cfg: cfg, logger: NewLogger(cfg.LogLevel)}
}

// SetLogger replaces the default logger.
func (c *Converter) SetLogger(l Logger) {
	c.logger = l
}

// Run executes the pipeline end to end, reading cfg.Input and writing
// cfg.Output atomically.
func (c *Converter) Run(ctx context.Context) Result {
	start := time.Now()
	result := Result{InputFile: c.cfg.Input}

	c.logger.Info("Processing %s", c.cfg.Input)

	rs, err := c.parse(c.cfg.Input)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.Rows = len(rs)
	c.logger.Debug("Parsed %d rows", len(rs))

	data, stats, err := c.Convert(ctx, rs)
	if err != nil {
		result.Error = err
		return result
	}
	result.Stats.Issues = stats.Issues
	result.Stats.Articles = stats.Articles

	if err := utils.WriteFileAtomic(c.cfg.Output, data); err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = c.cfg.Output
	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	c.logger.Info("Wrote %s (%d issues, %d articles)", c.cfg.Output, stats.Issues, stats.Articles)

	return result
}

// Convert transforms an already-parsed row sequence into serialized XML.
// This is the whole in-memory pipeline with no filesystem side effects,
// used by Run, by the upload command, and directly by tests.
func (c *Converter) Convert(ctx context.Context, rs []rows.Row) ([]byte, document.Stats, error) {
	rows.Normalize(rs, c.cfg.Aliases())

	grouping, err := hierarchy.Build(rs)
	if err != nil {
		return nil, document.Stats{}, err
	}
	c.logger.Debug("Grouped into %d issues", len(grouping.Order))

	if err := document.VerifySectionRefs(grouping); err != nil {
		return nil, document.Stats{}, err
	}

	files, err := c.resolveAssets(ctx, grouping)
	if err != nil {
		return nil, document.Stats{}, err
	}
	c.logger.Debug("Resolved %d assets", len(files))

	root, stats, err := document.Build(grouping, files, document.Options{
		IDScheme: c.cfg.IDScheme,
		Stage:    c.cfg.SubmissionStage,
	})
	if err != nil {
		return nil, document.Stats{}, err
	}

	data := xmlwriter.Serialize(root, "  ")

	if c.CheckSchema {
		if err := c.validateSchema(data); err != nil {
			return nil, document.Stats{}, err
		}
		c.logger.Debug("Document conforms to %s", c.cfg.SchemaFile)
	}

	return data, stats, nil
}

// parse dispatches on the input extension.
func (c *Converter) parse(path string) ([]rows.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return xlsxparser.Parse(path)
	default:
		return csvparser.Parse(path)
	}
}

// resolveAssets collects every referenced filename (one PDF per article
// row, plus issue covers) and materializes them before document building,
// so the builder itself touches no network or disk.
func (c *Converter) resolveAssets(ctx context.Context, g *hierarchy.Grouping) (map[string]document.FileSource, error) {
	var names []string
	for _, title := range g.Order {
		if cover := g.Issues[title].Cover; cover != "" {
			names = append(names, cover)
		}
		for _, row := range g.Articles[title] {
			name, err := row.Require(rows.FieldFile)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
		}
	}

	resolved, err := c.cfg.Resolver().Resolve(ctx, names)
	if err != nil {
		return nil, err
	}

	files := make(map[string]document.FileSource, len(resolved))
	for name, asset := range resolved {
		files[name] = document.FileSource{Href: asset.Href, Data: asset.Data}
	}
	return files, nil
}

// validateSchema checks the serialized document against native.xsd.
func (c *Converter) validateSchema(data []byte) error {
	engine, err := xsd.Compile(xsd.File(c.cfg.SchemaFile))
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", c.cfg.SchemaFile, err)
	}
	if err := engine.Validate(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("document does not conform to %s: %w", c.cfg.SchemaFile, err)
	}
	return nil
}
