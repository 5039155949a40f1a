package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractExcel returns one line per non-empty cell, sheet by sheet, row by row.
// Cells are not joined so neighbouring numeric cells stay separate candidates.
func extractExcel(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			for _, cell := range row {
				if s := strings.TrimSpace(cell); s != "" {
					lines = append(lines, s)
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
