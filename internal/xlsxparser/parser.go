// =============================================================================
// ojsconvert - XLSX Parser Module
// =============================================================================
//
// Reads the first sheet of an XLSX workbook into the same ordered row
// sequence the CSV parser produces, so metadata authors can hand over the
// spreadsheet directly instead of a CSV export of it. Row one is the
// header; excelize already trims trailing empty cells, which maps onto the
// absent-column semantics of rows.Row.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/openpress/ojsconvert/internal/rows"
)

// Parse reads the first sheet of an XLSX file into ordered rows.
func Parse(filePath string) ([]rows.Row, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]rows.Row, 0, len(records)-1)
	for i, record := range records[1:] {
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
	return out, nil
}
