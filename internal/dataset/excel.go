package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads the first non-empty sheet of an Excel workbook into a
// RawTable. The first populated row is taken as the header.
func LoadExcel(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			slog.Warn("failed to read sheet", slog.String("sheet", name), slog.String("error", err.Error()))
			continue
		}
		if trimmed := trimLeadingEmptyRows(sheetRows); len(trimmed) > 1 {
			rows = trimmed
			sheetName = name
			break
		}
	}

	if sheetName == "" {
		return nil, fmt.Errorf("workbook contains no sheet with data")
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	table := &RawTable{
		Columns: header,
		Rows:    rows[1:],
	}

	slog.Debug("loaded Excel table",
		slog.String("sheet", sheetName),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// trimLeadingEmptyRows drops fully empty leading rows so the header is the first
// populated row.
func trimLeadingEmptyRows(rows [][]string) [][]string {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return rows[i:]
			}
		}
	}
	return nil
}
