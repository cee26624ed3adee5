// Package regress provides the trainable scalar regressor behind the
// forecast engine. The engine only depends on the Regressor interface, so
// the tree-ensemble backend here can be swapped for any other
// fit/predict model without touching the forecasting contract.
package regress

import (
	"fmt"
)

// Regressor is a trainable scalar regression capability: fit on a feature
// matrix and a target vector, then predict one value per feature row.
type Regressor interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features [][]float64) []float64
}

// validateTrainingData checks the shape of a training set before fitting.
func validateTrainingData(features [][]float64, targets []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("no training samples")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}

	width := len(features[0])
	if width == 0 {
		return fmt.Errorf("empty feature vectors")
	}
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("ragged feature matrix: row %d has %d features, expected %d", i, len(row), width)
		}
	}

	return nil
}
