package forecast

import (
	"sort"
	"time"

	"salespulse/internal/dataset"
)

// Feature vector layout shared by training and prediction:
// (DayIndex, DayOfWeek, Month, ProductCode).
const (
	featureDayIndex = iota
	featureDayOfWeek
	featureMonth
	featureProductCode
	numFeatures
)

// dailyPoint is one (date, product) cell of the aggregated daily series.
type dailyPoint struct {
	Date    time.Time
	Product string
	Total   float64
}

// buildDailySeries aggregates the canonical table to daily per-product
// totals, sorted by (Product, Date). This is the series DayIndex counters
// are assigned over.
func buildDailySeries(table dataset.CanonicalTable) []dailyPoint {
	type key struct {
		date    time.Time
		product string
	}

	sums := make(map[key]float64, len(table))
	for _, row := range table {
		sums[key{row.Date, row.Product}] += row.TotalSales
	}

	series := make([]dailyPoint, 0, len(sums))
	for k, total := range sums {
		series = append(series, dailyPoint{Date: k.date, Product: k.product, Total: total})
	}

	sort.Slice(series, func(i, j int) bool {
		if series[i].Product != series[j].Product {
			return series[i].Product < series[j].Product
		}
		return series[i].Date.Before(series[j].Date)
	})

	return series
}

// trainingMatrix derives the feature matrix and target vector from the
// daily series. DayIndex is a per-product sequential counter over the
// product's chronological daily history, not a calendar offset.
func trainingMatrix(series []dailyPoint, encoding *ProductEncoding) (features [][]float64, targets []float64) {
	features = make([][]float64, 0, len(series))
	targets = make([]float64, 0, len(series))

	dayIndex := 0
	for i, point := range series {
		if i > 0 && series[i-1].Product == point.Product {
			dayIndex++
		} else {
			dayIndex = 0
		}

		code, ok := encoding.Code(point.Product)
		if !ok {
			continue // encoding was built over this series, should not happen
		}

		features = append(features, featureVector(dayIndex, point.Date, code))
		targets = append(targets, point.Total)
	}

	return features, targets
}

// featureVector builds one model input row.
func featureVector(dayIndex int, date time.Time, productCode int) []float64 {
	row := make([]float64, numFeatures)
	row[featureDayIndex] = float64(dayIndex)
	row[featureDayOfWeek] = float64(dayOfWeek(date))
	row[featureMonth] = float64(int(date.Month()))
	row[featureProductCode] = float64(productCode)
	return row
}

// dayOfWeek maps to the 0=Monday..6=Sunday convention the model was
// specified with.
func dayOfWeek(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// historyLength counts the distinct sales days a product has in the
// table. Future DayIndex values continue from this count.
func historyLength(table dataset.CanonicalTable, product string) int {
	days := make(map[time.Time]bool)
	for _, row := range table {
		if row.Product == product {
			days[row.Date] = true
		}
	}
	return len(days)
}
