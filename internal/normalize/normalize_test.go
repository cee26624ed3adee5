package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

func orderMapping() dataset.ColumnMapping {
	return dataset.ColumnMapping{
		Date:     "OrderDate",
		Product:  "SKU",
		Quantity: "Qty",
		Price:    "UnitPrice",
	}
}

func orderTable(rows [][]string) *dataset.RawTable {
	return &dataset.RawTable{
		Columns: []string{"OrderDate", "SKU", "Qty", "UnitPrice"},
		Rows:    rows,
	}
}

func TestNormalizeDerivesTotalSales(t *testing.T) {
	raw := orderTable([][]string{
		{"2024-01-01", "A", "2", "5.0"},
		{"2024-01-01", "B", "1", "10.0"},
		{"2024-01-02", "A", "1", "5.0"},
	})

	table, report, err := Normalize(raw, orderMapping())
	require.NoError(t, err)

	require.Len(t, table, 3)
	assert.Equal(t, 0, report.Dropped())

	totals := make([]float64, len(table))
	for i, row := range table {
		totals[i] = row.TotalSales
	}
	assert.Equal(t, []float64{10.0, 10.0, 5.0}, totals)
}

func TestNormalizeMappedSalesColumn(t *testing.T) {
	raw := &dataset.RawTable{
		Columns: []string{"Date", "Product", "Qty", "Price", "Amount"},
		Rows: [][]string{
			{"2024-01-01", "A", "2", "5.0", "9.5"}, // discounted, sales != qty*price
		},
	}
	mapping := dataset.ColumnMapping{
		Date: "Date", Product: "Product", Quantity: "Qty", Price: "Price", Sales: "Amount",
	}

	table, _, err := Normalize(raw, mapping)
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, 9.5, table[0].TotalSales)
}

func TestNormalizeDropsBadRows(t *testing.T) {
	raw := orderTable([][]string{
		{"2024-01-01", "A", "2", "5.0"},   // kept
		{"N/A", "B", "1", "10.0"},         // unparsable date
		{"2024-01-02", "C", "-3", "5.0"},  // negative quantity
		{"2024-01-03", "D", "x", "5.0"},   // non-numeric quantity
		{"2024-01-04", "E", "1", "oops"},  // non-numeric price
		{"2024-01-05", "F", "1", "0"},     // zero price
		{"2024-01-01", "A", "2", "5.0"},   // exact duplicate
	})

	table, report, err := Normalize(raw, orderMapping())
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.Equal(t, "A", table[0].Product)

	assert.Equal(t, 7, report.InputRows)
	assert.Equal(t, 1, report.BadDate)
	assert.Equal(t, 1, report.BadQuantity)
	assert.Equal(t, 1, report.BadPrice)
	assert.Equal(t, 2, report.NonPositive)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.OutputRows)
	assert.Equal(t, 6, report.Dropped())
}

func TestNormalizeSchemaError(t *testing.T) {
	raw := orderTable(nil)
	mapping := orderMapping()
	mapping.Quantity = "DoesNotExist"

	_, _, err := Normalize(raw, mapping)

	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "quantity", schemaErr.Role)
	assert.Equal(t, "DoesNotExist", schemaErr.Column)
}

func TestNormalizeMissingSalesColumnIsSchemaError(t *testing.T) {
	raw := orderTable(nil)
	mapping := orderMapping()
	mapping.Sales = "Ghost"

	_, _, err := Normalize(raw, mapping)

	var schemaErr *apperrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "sales", schemaErr.Role)
}

func TestNormalizeNoUsableRows(t *testing.T) {
	raw := orderTable([][]string{
		{"bad", "A", "1", "1"},
		{"2024-01-01", "B", "0", "1"},
	})

	table, report, err := Normalize(raw, orderMapping())
	assert.Nil(t, table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoUsableRows))
	assert.Equal(t, 2, report.Dropped())
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := orderTable([][]string{
		{"2024-01-01", "A", "2", "5.0"},
		{"2024-01-02", "B", "1", "10.0"},
	})

	first, _, err := Normalize(raw, orderMapping())
	require.NoError(t, err)

	// Re-normalizing an already-canonical table under an identity mapping
	// reproduces the same rows.
	canonical := &dataset.RawTable{
		Columns: []string{"Date", "Product", "Quantity", "Price", "Total_Sales"},
	}
	for _, row := range first {
		canonical.Rows = append(canonical.Rows, []string{
			row.Date.Format("2006-01-02"),
			row.Product,
			"2",
			"5.0",
			"10.0",
		})
	}
	canonical.Rows[1] = []string{"2024-01-02", "B", "1", "10.0", "10.0"}

	second, _, err := Normalize(canonical, dataset.ColumnMapping{
		Date: "Date", Product: "Product", Quantity: "Quantity", Price: "Price", Sales: "Total_Sales",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestNormalizeTruncatesTimeOfDay(t *testing.T) {
	raw := orderTable([][]string{
		{"2024-01-01 09:30:00", "A", "1", "5.0"},
	})

	table, _, err := Normalize(raw, orderMapping())
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), table[0].Date)
}
