package exporter

import (
	"fmt"
	"strconv"

	"salespulse/internal/analytics"
	"salespulse/internal/dataset"
	"salespulse/internal/forecast"
)

// formatFloat formats a float64 value for CSV output with exactly 2
// decimal places so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// CanonicalTable converts the cleaned dataset to CSV headers and records.
func CanonicalTable(table dataset.CanonicalTable) ([]string, [][]string) {
	headers := []string{"Date", "Product", "Quantity", "Price", "Total_Sales"}
	records := make([][]string, 0, len(table))
	for _, row := range table {
		records = append(records, []string{
			row.Date.Format("2006-01-02"),
			row.Product,
			formatFloat(row.Quantity),
			formatFloat(row.Price),
			formatFloat(row.TotalSales),
		})
	}
	return headers, records
}

// SummaryReport converts the dataset summary to key-value CSV records.
func SummaryReport(report analytics.SummaryReport) ([]string, [][]string) {
	headers := []string{"Metric", "Value"}
	records := [][]string{
		{"Total Rows", strconv.Itoa(report.RowCount)},
		{"Total Products", strconv.Itoa(report.DistinctProductCount)},
		{"Total Sales", formatFloat(report.TotalSales)},
		{"Average Sale per Transaction", formatFloat(report.AverageSalePerTransaction)},
		{"Best Selling Product", report.BestSellingProduct},
		{"Worst Selling Product", report.WorstSellingProduct},
	}
	return headers, records
}

// ProductTotals converts a product ranking to CSV records.
func ProductTotals(totals []analytics.ProductTotal) ([]string, [][]string) {
	headers := []string{"Product", "Total_Sales"}
	records := make([][]string, 0, len(totals))
	for _, pt := range totals {
		records = append(records, []string{pt.Product, formatFloat(pt.TotalSales)})
	}
	return headers, records
}

// ProductSummaries converts the per-product breakdown to CSV records.
func ProductSummaries(summaries []analytics.ProductSummary) ([]string, [][]string) {
	headers := []string{"Product", "Total_Sales", "Total_Quantity", "Avg_Sales", "Transaction_Count", "Contribution_Percentage"}
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Product,
			formatFloat(s.TotalSales),
			formatFloat(s.TotalQuantity),
			formatFloat(s.AvgSales),
			strconv.Itoa(s.TransactionCount),
			formatFloat(s.ContributionPercentage),
		})
	}
	return headers, records
}

// ForecastRows converts a forecast table to CSV records.
func ForecastRows(rows []forecast.ForecastRow) ([]string, [][]string) {
	headers := []string{"Date", "Product", "Predicted_Sales"}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Date.Format("2006-01-02"),
			row.Product,
			formatFloat(row.PredictedSales),
		})
	}
	return headers, records
}

// FutureProductTotals converts the top-future-products ranking to CSV
// records.
func FutureProductTotals(totals []forecast.ProductForecastTotal) ([]string, [][]string) {
	headers := []string{"Product", "Total_Predicted_Sales"}
	records := make([][]string, 0, len(totals))
	for _, pt := range totals {
		records = append(records, []string{pt.Product, formatFloat(pt.TotalPredictedSales)})
	}
	return headers, records
}
