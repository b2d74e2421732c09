// =============================================================================
// ojsconvert - Validate Command
// =============================================================================
//
// The validate command checks an existing XML document against native.xsd.
// The import schema is externally fixed; this tool only ever tests
// conformance against it, it never re-derives it.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/jacoelho/xsd"
	"github.com/spf13/cobra"

	"github.com/openpress/ojsconvert/internal/config"
)

// schemaFile overrides the configured native.xsd location.
var schemaFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <document.xml>",
	Short: "Validate an XML document against the native import schema",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&schemaFile, "schema", "",
		"Path to native.xsd (overrides config)")
}

func runValidate(documentPath string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	location := cfg.SchemaFile
	if schemaFile != "" {
		location = schemaFile
	}

	engine, err := xsd.Compile(xsd.File(location))
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", location, err)
	}

	doc, err := os.Open(documentPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", documentPath, err)
	}
	defer doc.Close()

	if err := engine.Validate(doc); err != nil {
		return fmt.Errorf("%s does not conform to %s: %w", documentPath, location, err)
	}

	fmt.Printf("%s conforms to %s\n", documentPath, location)
	return nil
}
