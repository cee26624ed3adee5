package forecast

import (
	"sort"
)

// ProductForecastTotal is one ranking entry of projected sales.
type ProductForecastTotal struct {
	Product             string  `json:"product"`
	TotalPredictedSales float64 `json:"total_predicted_sales"`
}

// TopFutureProducts groups forecast rows by product, sums predicted sales
// and returns the top n products. Empty input yields empty output.
func TopFutureProducts(rows []ForecastRow, n int) []ProductForecastTotal {
	if len(rows) == 0 || n < 1 {
		return nil
	}

	sums := make(map[string]float64, len(rows))
	var order []string
	for _, row := range rows {
		if _, ok := sums[row.Product]; !ok {
			order = append(order, row.Product)
		}
		sums[row.Product] += row.PredictedSales
	}

	totals := make([]ProductForecastTotal, 0, len(order))
	for _, product := range order {
		totals = append(totals, ProductForecastTotal{
			Product:             product,
			TotalPredictedSales: sums[product],
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalPredictedSales > totals[j].TotalPredictedSales
	})

	if len(totals) > n {
		totals = totals[:n]
	}

	return totals
}
