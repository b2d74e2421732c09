// =============================================================================
// ojsconvert - Configuration Module
// =============================================================================
//
// This module loads and validates the YAML configuration. The column-name
// set of the source spreadsheet is a versioned contract between the
// metadata authors and this tool, so legacy header aliases live in the
// configuration rather than in code; the built-in firstname/lastname
// aliases are always applied and the column_aliases block extends them.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openpress/ojsconvert/internal/assets"
	"github.com/openpress/ojsconvert/internal/document"
	"github.com/openpress/ojsconvert/internal/rows"
)

// Config holds the application configuration.
type Config struct {
	// Input is the source spreadsheet, CSV or XLSX by extension.
	// Default: "import.csv"
	Input string `yaml:"input"`

	// Output is the destination XML path.
	// Default: "conversion.xml"
	Output string `yaml:"output"`

	// Assets selects how article PDFs and cover images are materialized.
	Assets AssetSettings `yaml:"assets"`

	// IDScheme selects submission-file/galley identifier assignment:
	// "counter" (run-wide sequential, default) or "seq" (per-row column).
	IDScheme string `yaml:"id_scheme"`

	// SubmissionStage is the default submission_file stage for rows that
	// carry no submission_stage column.
	// Default: "submission"
	SubmissionStage string `yaml:"submission_stage"`

	// ColumnAliases maps legacy column headers onto canonical ones, on top
	// of the built-in firstname/lastname aliases.
	ColumnAliases map[string]string `yaml:"column_aliases"`

	// SchemaFile is the native.xsd location used by --check-schema and the
	// validate command.
	// Default: "native.xsd"
	SchemaFile string `yaml:"schema_file"`

	// S3 configures the upload command.
	S3 S3Settings `yaml:"s3"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// AssetSettings configures the asset resolution pass.
type AssetSettings struct {
	// Mode is "href", "embed-local" or "embed-remote".
	// Default: "href"
	Mode string `yaml:"mode"`

	// BaseLocation is the URL prefix for href and embed-remote modes,
	// e.g. "http://mybucket.s3.amazonaws.com/pdf/".
	BaseLocation string `yaml:"base_location"`

	// Folder is the local directory read in embed-local mode.
	Folder string `yaml:"folder"`
}

// S3Settings configures the object-store round trip of the upload command.
// Environment variables (OJSCONVERT_S3_BUCKET, AWS_REGION) override the
// bucket and region so lambda-style deployments need no config file edits.
type S3Settings struct {
	Bucket string `yaml:"bucket"`

	Region string `yaml:"region"`

	// SourceKey is the object key of the uploaded spreadsheet.
	// Default: "csv/import.csv"
	SourceKey string `yaml:"source_key"`

	// OutputKey is the object key the XML document is written under.
	// Default: "conversion.xml"
	OutputKey string `yaml:"output_key"`
}

// Load reads, defaults and validates a configuration file. A missing file
// is not an error: the defaults describe a complete local href-mode run.
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Aliases returns the effective legacy-header alias table: the built-in
// aliases extended (and overridable) by column_aliases.
func (c *Config) Aliases() map[string]string {
	aliases := rows.DefaultAliases()
	for legacy, canonical := range c.ColumnAliases {
		aliases[legacy] = canonical
	}
	return aliases
}

// Resolver builds the asset resolver for this configuration.
func (c *Config) Resolver() *assets.Resolver {
	return &assets.Resolver{
		Mode:         assets.Mode(c.Assets.Mode),
		BaseLocation: c.Assets.BaseLocation,
		Folder:       c.Assets.Folder,
	}
}

func applyDefaults(config *Config) {
	if config.Input == "" {
		config.Input = "import.csv"
	}
	if config.Output == "" {
		config.Output = "conversion.xml"
	}
	if config.Assets.Mode == "" {
		config.Assets.Mode = string(assets.ModeHref)
	}
	if config.IDScheme == "" {
		config.IDScheme = document.SchemeCounter
	}
	if config.SubmissionStage == "" {
		config.SubmissionStage = "submission"
	}
	if config.SchemaFile == "" {
		config.SchemaFile = "native.xsd"
	}
	if config.S3.SourceKey == "" {
		config.S3.SourceKey = "csv/import.csv"
	}
	if config.S3.OutputKey == "" {
		config.S3.OutputKey = "conversion.xml"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if v := os.Getenv("OJSCONVERT_S3_BUCKET"); v != "" {
		config.S3.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && config.S3.Region == "" {
		config.S3.Region = v
	}
}

func validate(config *Config) error {
	mode := assets.Mode(config.Assets.Mode)
	if !mode.Valid() {
		return fmt.Errorf("assets.mode must be one of href, embed-local, embed-remote; got %q", config.Assets.Mode)
	}
	if mode == assets.ModeEmbedRemote && config.Assets.BaseLocation == "" {
		return fmt.Errorf("assets.base_location is required in embed-remote mode")
	}
	if mode == assets.ModeEmbedLocal && config.Assets.Folder == "" {
		return fmt.Errorf("assets.folder is required in embed-local mode")
	}

	switch config.IDScheme {
	case document.SchemeCounter, document.SchemeSeq:
	default:
		return fmt.Errorf("id_scheme must be %q or %q; got %q",
			document.SchemeCounter, document.SchemeSeq, config.IDScheme)
	}

	return nil
}
