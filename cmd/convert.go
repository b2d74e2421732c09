// =============================================================================
// ojsconvert - Convert Command
// =============================================================================
//
// The convert command runs the local pipeline: read the input spreadsheet,
// group rows into issues, build the native-XML document and write it to the
// output path. The run is all-or-nothing; on failure no output file is
// left behind (the writer goes through a temporary file and rename).
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openpress/ojsconvert/internal/config"
	"github.com/openpress/ojsconvert/internal/converter"
)

// inputFile overrides the configured input spreadsheet.
var inputFile string

// outputFile overrides the configured output path.
var outputFile string

// checkSchema validates the document against native.xsd before writing.
var checkSchema bool

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a metadata spreadsheet to OJS native XML",
	Long: `The convert command reads a CSV or XLSX metadata spreadsheet, groups its
rows into issues, sections and articles, and writes one native-XML import
document.

On success the output path holds the complete document and the issue and
article counts are reported. On any error (a missing required column, a
failed asset fetch) the run aborts and no output file is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "",
		"Input spreadsheet, CSV or XLSX (overrides config)")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Output XML path (overrides config)")
	convertCmd.Flags().BoolVar(&checkSchema, "check-schema", false,
		"Validate the document against native.xsd before writing")
}

func runConvert(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if inputFile != "" {
		cfg.Input = inputFile
	}
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	conv := converter.New(cfg)
	conv.CheckSchema = checkSchema

	if ctx == nil {
		ctx = context.Background()
	}

	result := conv.Run(ctx)
	if !result.Success {
		return fmt.Errorf("conversion failed: %w", result.Error)
	}

	fmt.Printf("Converted %s -> %s\n", result.InputFile, result.OutputFile)
	fmt.Printf("Issues:   %d\n", result.Stats.Issues)
	fmt.Printf("Articles: %d\n", result.Stats.Articles)
	return nil
}
