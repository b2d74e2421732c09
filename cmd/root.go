// =============================================================================
// ojsconvert - Root Command
// =============================================================================
//
// The root command is the base that all subcommands (convert, upload,
// validate, version) attach to. It owns the global flags and loads the
// optional .env file so S3 credentials and bucket settings can be supplied
// outside the YAML configuration.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ojsconvert",
	Short: "Convert journal metadata spreadsheets to OJS native XML",
	Long: `ojsconvert transforms spreadsheet-exported journal issue and article
metadata (CSV or XLSX) into an XML document conforming to the OJS
native-XML import schema (http://pkp.sfu.ca, native.xsd).

Rows are grouped into issues, sections and articles, optional fields are
defaulted, and article PDFs are either referenced by URL or embedded as
base64 payloads.

Example Usage:
  ojsconvert convert --input import.csv --output conversion.xml
  ojsconvert convert --input import.xlsx --check-schema
  ojsconvert upload                      # S3 download, convert, S3 upload
  ojsconvert validate conversion.xml     # check against native.xsd`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	cobra.OnInitialize(initEnv)
}

// initEnv loads a .env file when one is present. Missing files are fine;
// the environment may already carry everything the S3 store needs.
func initEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}
}
