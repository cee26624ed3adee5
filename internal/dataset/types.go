package dataset

import (
	"time"
)

// RawTable is an uploaded table before any cleaning: ordered column names
// and string cells exactly as they appeared in the source file.
type RawTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, or false when the
// table has no such column.
func (t *RawTable) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// RowCount returns the number of data rows in the table.
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// Cell returns the value at (row, col), or "" when the row is ragged and
// does not reach that column.
func (t *RawTable) Cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return t.Rows[row][col]
	}
	return ""
}

// ColumnMapping assigns raw column names to the semantic roles the
// pipeline needs. Sales is optional; when empty, total sales is derived as
// Quantity x Price during normalization. An empty required role means
// auto-detection found no candidate and the caller must ask the user.
type ColumnMapping struct {
	Date     string `json:"date" validate:"required"`
	Product  string `json:"product" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Sales    string `json:"sales,omitempty"`
}

// Complete reports whether every required role has been resolved.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Product != "" && m.Quantity != "" && m.Price != ""
}

// HasSales reports whether a total-sales column was mapped.
func (m ColumnMapping) HasSales() bool {
	return m.Sales != ""
}

// CanonicalRow is one cleaned transaction. Invariants enforced by the
// normalizer: Quantity, Price and TotalSales are all > 0 and Date is a
// valid calendar date. Rows are never mutated after normalization.
type CanonicalRow struct {
	Date       time.Time `json:"date"`
	Product    string    `json:"product"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	TotalSales float64   `json:"total_sales"`
}

// IsValid checks the canonical row invariants.
func (r CanonicalRow) IsValid() bool {
	return !r.Date.IsZero() && r.Product != "" &&
		r.Quantity > 0 && r.Price > 0 && r.TotalSales > 0
}

// CanonicalTable is the cleaned dataset all analytics operate on. Row
// order carries no meaning; consumers re-group and re-sort as needed.
type CanonicalTable []CanonicalRow

// Empty reports whether the table has no rows.
func (t CanonicalTable) Empty() bool {
	return len(t) == 0
}

// Products returns the distinct product identifiers in first-encountered
// order.
func (t CanonicalTable) Products() []string {
	seen := make(map[string]bool, len(t))
	var products []string
	for _, row := range t {
		if !seen[row.Product] {
			seen[row.Product] = true
			products = append(products, row.Product)
		}
	}
	return products
}

// TotalSales returns the sum of TotalSales over all rows.
func (t CanonicalTable) TotalSales() float64 {
	var total float64
	for _, row := range t {
		total += row.TotalSales
	}
	return total
}
