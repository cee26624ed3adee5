// Package normalize turns a raw uploaded table into the canonical
// five-column sales table. Cleaning is strictly drop-or-pass: an offending
// row is discarded, never repaired, and the per-reason drop counts are
// reported back to the caller.
package normalize

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

// DropReport records how many rows each cleaning step discarded. It is the
// caller-visible trace of row-level parse failures.
type DropReport struct {
	InputRows   int `json:"input_rows"`
	BadDate     int `json:"bad_date"`
	BadQuantity int `json:"bad_quantity"`
	BadPrice    int `json:"bad_price"`
	BadSales    int `json:"bad_sales"`
	NonPositive int `json:"non_positive"`
	Duplicates  int `json:"duplicates"`
	OutputRows  int `json:"output_rows"`
}

// Dropped returns the total number of discarded rows.
func (r DropReport) Dropped() int {
	return r.InputRows - r.OutputRows
}

// Normalize projects the raw table onto the mapped columns and applies the
// cleaning steps in order: date parsing, numeric coercion, total-sales
// derivation, positivity filtering and exact-duplicate removal.
//
// It fails with a SchemaError when a mapped column does not exist in the
// raw table, and with ErrNoUsableRows when cleaning discarded every row.
// The DropReport is valid in both cases.
func Normalize(raw *dataset.RawTable, mapping dataset.ColumnMapping) (dataset.CanonicalTable, DropReport, error) {
	report := DropReport{InputRows: raw.RowCount()}

	idx, err := resolveColumns(raw, mapping)
	if err != nil {
		return nil, report, err
	}

	table := make(dataset.CanonicalTable, 0, raw.RowCount())
	seen := make(map[string]bool, raw.RowCount())

	for i := 0; i < raw.RowCount(); i++ {
		date, err := dataset.ParseDate(raw.Cell(i, idx.date))
		if err != nil {
			report.BadDate++
			continue
		}

		quantity, err := dataset.ParseNumber(raw.Cell(i, idx.quantity))
		if err != nil {
			report.BadQuantity++
			continue
		}

		price, err := dataset.ParseNumber(raw.Cell(i, idx.price))
		if err != nil {
			report.BadPrice++
			continue
		}

		var totalSales float64
		if idx.sales >= 0 {
			totalSales, err = dataset.ParseNumber(raw.Cell(i, idx.sales))
			if err != nil {
				report.BadSales++
				continue
			}
		} else {
			totalSales = quantity * price
		}

		product := strings.TrimSpace(raw.Cell(i, idx.product))

		row := dataset.CanonicalRow{
			Date:       date,
			Product:    product,
			Quantity:   quantity,
			Price:      price,
			TotalSales: totalSales,
		}

		if product == "" || quantity <= 0 || price <= 0 || totalSales <= 0 {
			report.NonPositive++
			continue
		}

		key := rowKey(row)
		if seen[key] {
			report.Duplicates++
			continue
		}
		seen[key] = true

		table = append(table, row)
	}

	report.OutputRows = len(table)

	slog.Info("normalized dataset",
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Int("dropped", report.Dropped()))

	if len(table) == 0 {
		return nil, report, fmt.Errorf("normalize %d rows: %w", report.InputRows, apperrors.ErrNoUsableRows)
	}

	return table, report, nil
}

// columnIndexes holds the resolved positions of the mapped columns. sales
// is -1 when no total-sales column was mapped.
type columnIndexes struct {
	date     int
	product  int
	quantity int
	price    int
	sales    int
}

func resolveColumns(raw *dataset.RawTable, mapping dataset.ColumnMapping) (columnIndexes, error) {
	idx := columnIndexes{sales: -1}

	required := []struct {
		role   string
		column string
		target *int
	}{
		{"date", mapping.Date, &idx.date},
		{"product", mapping.Product, &idx.product},
		{"quantity", mapping.Quantity, &idx.quantity},
		{"price", mapping.Price, &idx.price},
	}

	for _, req := range required {
		pos, ok := raw.ColumnIndex(req.column)
		if !ok {
			return idx, apperrors.NewSchemaError(req.role, req.column)
		}
		*req.target = pos
	}

	if mapping.HasSales() {
		pos, ok := raw.ColumnIndex(mapping.Sales)
		if !ok {
			return idx, apperrors.NewSchemaError("sales", mapping.Sales)
		}
		idx.sales = pos
	}

	return idx, nil
}

// rowKey builds the exact-duplicate key over all five canonical fields.
func rowKey(row dataset.CanonicalRow) string {
	return row.Date.Format("2006-01-02") + "|" + row.Product + "|" +
		strconv.FormatFloat(row.Quantity, 'g', -1, 64) + "|" +
		strconv.FormatFloat(row.Price, 'g', -1, 64) + "|" +
		strconv.FormatFloat(row.TotalSales, 'g', -1, 64)
}
