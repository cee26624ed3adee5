package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoadCSV reads a delimited text file into a RawTable. The first record is
// taken as the header row; ragged data rows are padded on access rather
// than rejected here, since row-level validation belongs to the
// normalizer.
func LoadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	table := &RawTable{
		Columns: header,
		Rows:    records[1:],
	}

	slog.Debug("loaded CSV table",
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// LoadCSVFile opens and reads a CSV file from disk.
func LoadCSVFile(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	table, err := LoadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return table, nil
}
