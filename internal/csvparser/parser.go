// =============================================================================
// ojsconvert - CSV Parser Module
// =============================================================================
//
// Reads a spreadsheet-exported CSV into the ordered row sequence the
// hierarchy builder consumes. The first line is the header; every following
// line becomes one Row mapping header -> cell. Short lines are tolerated
// (trailing columns simply absent from the row), matching how spreadsheet
// exports trim empty cells.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/openpress/ojsconvert/internal/rows"
)

// Parse reads a CSV file into ordered rows.
func Parse(filePath string) ([]rows.Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(records[0])

	return buildRows(headers, records[1:]), nil
}

// buildRows zips each record against the headers. Cells beyond the header
// count are dropped; headers beyond the record length are left absent from
// the row, which is what lets Require distinguish a missing column from an
// empty value.
func buildRows(headers []string, records [][]string) []rows.Row {
	out := make([]rows.Row, 0, len(records))
	for i, record := range records {
		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(record) {
				fields[header] = record[col]
			}
		}
		out = append(out, rows.Row{Line: i + 1, Fields: fields})
	}
	return out
}

// cleanHeaders trims whitespace and strips a UTF-8 BOM from the first
// header, a common artifact of spreadsheet exports.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		cleaned[i] = header
	}
	return cleaned
}
