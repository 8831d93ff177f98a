package dianparser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"contaflow/dian-csv/internal/parsererror"
)

// readSheetRows returns all rows of the first sheet of an Excel workbook.
func readSheetRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "cannot open Excel file: " + err.Error()}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.WithField("file", filePath).Warnf("Error closing Excel file: %v", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &parsererror.ValidationError{FilePath: filePath, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "dian", Field: "sheet", Value: sheets[0], Err: err}
	}
	return rows, nil
}

// nonEmptyCells counts cells with content after trimming.
func nonEmptyCells(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

// cellAt returns the trimmed cell at idx or "" when the row is shorter.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// findHeaderRow returns the index of the first row with at least minCells
// non-empty cells. Reports and certificates often carry title or totals rows
// before the real header.
func findHeaderRow(rows [][]string, minCells int) int {
	for i, row := range rows {
		if nonEmptyCells(row) >= minCells {
			return i
		}
	}
	return -1
}
