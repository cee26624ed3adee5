package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func row(d int, product string, qty, price float64) dataset.CanonicalRow {
	return dataset.CanonicalRow{
		Date:       day(d),
		Product:    product,
		Quantity:   qty,
		Price:      price,
		TotalSales: qty * price,
	}
}

func TestSummarize(t *testing.T) {
	table := dataset.CanonicalTable{
		row(1, "A", 2, 5.0),  // 10
		row(1, "B", 1, 10.0), // 10
		row(2, "A", 1, 5.0),  // 5
	}

	report, err := Summarize(table)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowCount)
	assert.Equal(t, 2, report.DistinctProductCount)
	assert.InDelta(t, 25.0, report.TotalSales, 1e-9)
	assert.InDelta(t, 25.0/3, report.AverageSalePerTransaction, 1e-9)
	assert.Equal(t, "A", report.BestSellingProduct, "A totals 15")
	assert.Equal(t, "B", report.WorstSellingProduct, "B totals 10")
}

func TestSummarizeTiesKeepFirstEncountered(t *testing.T) {
	table := dataset.CanonicalTable{
		row(1, "X", 1, 10.0),
		row(1, "Y", 1, 10.0),
	}

	report, err := Summarize(table)
	require.NoError(t, err)

	assert.Equal(t, "X", report.BestSellingProduct)
	assert.Equal(t, "X", report.WorstSellingProduct)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestTopLowProducts(t *testing.T) {
	var table dataset.CanonicalTable
	// Products P01..P25 with strictly increasing sales.
	for i := 1; i <= 25; i++ {
		table = append(table, row(1, fmt.Sprintf("P%02d", i), 1, float64(i)))
	}

	top, low := TopLowProducts(table, 10)

	require.Len(t, top, 10)
	require.Len(t, low, 10)
	assert.Equal(t, "P25", top[0].Product)
	assert.Equal(t, "P01", low[len(low)-1].Product)

	seen := make(map[string]bool)
	for _, pt := range top {
		seen[pt.Product] = true
	}
	for _, pt := range low {
		assert.False(t, seen[pt.Product], "top and low must not share %s", pt.Product)
	}
}

func TestTopLowProductsSmallCatalogue(t *testing.T) {
	table := dataset.CanonicalTable{
		row(1, "A", 1, 3.0),
		row(1, "B", 1, 2.0),
		row(1, "C", 1, 1.0),
	}

	top, low := TopLowProducts(table, 10)

	// Fewer than 2n products: split the ranked list instead.
	require.Len(t, top, 1)
	require.Len(t, low, 2)
	assert.Equal(t, "A", top[0].Product)
	assert.Equal(t, []ProductTotal{
		{Product: "B", TotalSales: 2.0},
		{Product: "C", TotalSales: 1.0},
	}, low)
}

func TestTopLowProductsEmpty(t *testing.T) {
	top, low := TopLowProducts(nil, 10)
	assert.Nil(t, top)
	assert.Nil(t, low)
}

func TestProductSalesSummary(t *testing.T) {
	table := dataset.CanonicalTable{
		row(1, "A", 2, 5.0),
		row(1, "B", 1, 10.0),
		row(2, "A", 1, 5.0),
	}

	summaries := ProductSalesSummary(table)
	require.Len(t, summaries, 2)

	assert.Equal(t, "A", summaries[0].Product)
	assert.InDelta(t, 15.0, summaries[0].TotalSales, 1e-9)
	assert.InDelta(t, 3.0, summaries[0].TotalQuantity, 1e-9)
	assert.InDelta(t, 7.5, summaries[0].AvgSales, 1e-9)
	assert.Equal(t, 2, summaries[0].TransactionCount)

	assert.Equal(t, "B", summaries[1].Product)
	assert.Equal(t, 1, summaries[1].TransactionCount)

	var contribution float64
	for _, s := range summaries {
		contribution += s.ContributionPercentage
	}
	assert.InDelta(t, 100.0, contribution, 1e-6)
}

func TestProductSalesSummarySortedDescending(t *testing.T) {
	table := dataset.CanonicalTable{
		row(1, "low", 1, 1.0),
		row(1, "high", 1, 9.0),
		row(1, "mid", 1, 5.0),
	}

	summaries := ProductSalesSummary(table)
	require.Len(t, summaries, 3)
	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].TotalSales, summaries[i].TotalSales)
	}
}

func TestProductSalesSummaryEmpty(t *testing.T) {
	assert.Nil(t, ProductSalesSummary(nil))
}
