// Package analytics derives descriptive statistics and product rankings
// from the canonical sales table. Every function recomputes from the table
// it is given; nothing here holds state between calls.
package analytics

import (
	"fmt"
	"sort"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
)

// SummaryReport is a read-only snapshot of dataset-level statistics,
// recomputed on demand from the canonical table.
type SummaryReport struct {
	RowCount                  int     `json:"row_count"`
	DistinctProductCount      int     `json:"distinct_product_count"`
	TotalSales                float64 `json:"total_sales"`
	AverageSalePerTransaction float64 `json:"average_sale_per_transaction"`
	BestSellingProduct        string  `json:"best_selling_product"`
	WorstSellingProduct       string  `json:"worst_selling_product"`
}

// ProductTotal is one ranking entry: a product and its summed sales.
type ProductTotal struct {
	Product    string  `json:"product"`
	TotalSales float64 `json:"total_sales"`
}

// ProductSummary is one row of the per-product sales breakdown.
type ProductSummary struct {
	Product                string  `json:"product"`
	TotalSales             float64 `json:"total_sales"`
	TotalQuantity          float64 `json:"total_quantity"`
	AvgSales               float64 `json:"avg_sales"`
	TransactionCount       int     `json:"transaction_count"`
	ContributionPercentage float64 `json:"contribution_percentage"`
}

// Summarize computes the dataset-level summary. Best and worst selling
// products are ranked by summed sales per product, ties broken by the
// first-encountered product.
func Summarize(table dataset.CanonicalTable) (SummaryReport, error) {
	if table.Empty() {
		return SummaryReport{}, fmt.Errorf("summarize: %w", apperrors.ErrEmptyInput)
	}

	totals := productTotals(table)

	best, worst := totals[0], totals[0]
	for _, pt := range totals[1:] {
		if pt.TotalSales > best.TotalSales {
			best = pt
		}
		if pt.TotalSales < worst.TotalSales {
			worst = pt
		}
	}

	grandTotal := table.TotalSales()

	return SummaryReport{
		RowCount:                  len(table),
		DistinctProductCount:      len(totals),
		TotalSales:                grandTotal,
		AverageSalePerTransaction: grandTotal / float64(len(table)),
		BestSellingProduct:        best.Product,
		WorstSellingProduct:       worst.Product,
	}, nil
}

// TopLowProducts ranks products by summed sales and returns the top and
// bottom n entries. When the catalogue holds fewer than 2n products the
// sorted list is split at floor(count/2) instead, so the two sets never
// share a product.
func TopLowProducts(table dataset.CanonicalTable, n int) (top, low []ProductTotal) {
	if table.Empty() || n < 1 {
		return nil, nil
	}

	ranked := rankBySales(productTotals(table))

	if len(ranked) >= 2*n {
		return ranked[:n], ranked[len(ranked)-n:]
	}

	split := len(ranked) / 2
	return ranked[:split], ranked[split:]
}

// ProductSalesSummary builds the per-product breakdown sorted descending
// by total sales. Contribution percentages sum to 100 across all products.
func ProductSalesSummary(table dataset.CanonicalTable) []ProductSummary {
	if table.Empty() {
		return nil
	}

	type accumulator struct {
		sales    float64
		quantity float64
		count    int
	}

	order := table.Products()
	groups := make(map[string]*accumulator, len(order))
	for _, row := range table {
		acc, ok := groups[row.Product]
		if !ok {
			acc = &accumulator{}
			groups[row.Product] = acc
		}
		acc.sales += row.TotalSales
		acc.quantity += row.Quantity
		acc.count++
	}

	grandTotal := table.TotalSales()

	summaries := make([]ProductSummary, 0, len(order))
	for _, product := range order {
		acc := groups[product]
		summaries = append(summaries, ProductSummary{
			Product:                product,
			TotalSales:             acc.sales,
			TotalQuantity:          acc.quantity,
			AvgSales:               acc.sales / float64(acc.count),
			TransactionCount:       acc.count,
			ContributionPercentage: 100 * acc.sales / grandTotal,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalSales > summaries[j].TotalSales
	})

	return summaries
}

// productTotals groups the table by product and sums sales, preserving
// first-encountered product order for stable tie-breaking.
func productTotals(table dataset.CanonicalTable) []ProductTotal {
	order := table.Products()
	sums := make(map[string]float64, len(order))
	for _, row := range table {
		sums[row.Product] += row.TotalSales
	}

	totals := make([]ProductTotal, 0, len(order))
	for _, product := range order {
		totals = append(totals, ProductTotal{Product: product, TotalSales: sums[product]})
	}
	return totals
}

// rankBySales sorts product totals descending, keeping the stable grouping
// order on equal sales.
func rankBySales(totals []ProductTotal) []ProductTotal {
	ranked := make([]ProductTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSales > ranked[j].TotalSales
	})
	return ranked
}
