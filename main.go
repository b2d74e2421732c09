// =============================================================================
// ojsconvert - Main Entry Point
// =============================================================================
//
// ojsconvert turns spreadsheet-exported journal metadata (CSV or XLSX) into
// an OJS native-XML import document. The CLI is built with Cobra and all
// command definitions live in the cmd package.
//
// USAGE:
//   ojsconvert convert        - Convert a metadata spreadsheet to native XML
//   ojsconvert upload         - Convert from/to an S3 bucket (lambda-style run)
//   ojsconvert validate       - Validate an XML document against native.xsd
//   ojsconvert version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : core conversion logic (not for external import)
//   - pkg/           : shared utilities
//
// =============================================================================

package main

import (
	"github.com/openpress/ojsconvert/cmd"
)

func main() {
	cmd.Execute()
}
