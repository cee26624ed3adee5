package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/forecast/regress"
)

func testEngine() *Engine {
	return NewEngine(Config{
		Forest: regress.ForestConfig{Trees: 10, MaxDepth: 5, Seed: 42},
		Now: func() time.Time {
			return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
		},
	})
}

func trainingTable() dataset.CanonicalTable {
	var table dataset.CanonicalTable
	for d := 1; d <= 14; d++ {
		table = append(table,
			canonicalRow(date(2024, 3, d), "A", float64(10+d)),
			canonicalRow(date(2024, 3, d), "B", float64(20+d)),
		)
	}
	return table
}

func TestEngineTrainAndPredictShape(t *testing.T) {
	engine := testEngine()
	table := trainingTable()

	require.False(t, engine.Trained())
	require.NoError(t, engine.Train(context.Background(), table))
	require.True(t, engine.Trained())

	const horizon = 7
	rows, err := engine.Predict(context.Background(), table, horizon, "")
	require.NoError(t, err)

	// Exactly horizon rows per product.
	require.Len(t, rows, horizon*2)

	perProduct := make(map[string]int)
	tomorrow := date(2024, 3, 16)
	last := tomorrow.AddDate(0, 0, horizon-1)
	for _, row := range rows {
		perProduct[row.Product]++
		assert.False(t, row.Date.Before(tomorrow), "date %v before tomorrow", row.Date)
		assert.False(t, row.Date.After(last), "date %v past horizon", row.Date)
	}
	assert.Equal(t, horizon, perProduct["A"])
	assert.Equal(t, horizon, perProduct["B"])
}

func TestEnginePredictSelectedProduct(t *testing.T) {
	engine := testEngine()
	table := trainingTable()
	require.NoError(t, engine.Train(context.Background(), table))

	rows, err := engine.Predict(context.Background(), table, 5, "B")
	require.NoError(t, err)

	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, "B", row.Product)
	}
}

func TestEnginePredictSkipsUnknownProducts(t *testing.T) {
	engine := testEngine()
	table := trainingTable()
	require.NoError(t, engine.Train(context.Background(), table))

	// The refreshed dataset carries a product the model never saw.
	refreshed := append(dataset.CanonicalTable{}, table...)
	refreshed = append(refreshed, canonicalRow(date(2024, 3, 20), "C", 99))

	rows, err := engine.Predict(context.Background(), refreshed, 3, "")
	require.NoError(t, err)

	require.Len(t, rows, 3*2)
	for _, row := range rows {
		assert.NotEqual(t, "C", row.Product)
	}
}

func TestEngineCheckCompatibility(t *testing.T) {
	engine := testEngine()
	table := trainingTable()

	_, err := engine.CheckCompatibility(table)
	assert.ErrorIs(t, err, ErrNotTrained)

	require.NoError(t, engine.Train(context.Background(), table))

	missing, err := engine.CheckCompatibility(table)
	require.NoError(t, err)
	assert.Empty(t, missing)

	refreshed := append(dataset.CanonicalTable{}, table...)
	refreshed = append(refreshed, canonicalRow(date(2024, 3, 20), "C", 99))

	missing, err = engine.CheckCompatibility(refreshed)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, missing)
}

func TestEngineRetrainReplacesModel(t *testing.T) {
	engine := testEngine()
	table := trainingTable()
	require.NoError(t, engine.Train(context.Background(), table))

	refreshed := append(dataset.CanonicalTable{}, table...)
	for d := 10; d <= 14; d++ {
		refreshed = append(refreshed, canonicalRow(date(2024, 3, d), "C", 50))
	}
	require.NoError(t, engine.Train(context.Background(), refreshed))

	missing, err := engine.CheckCompatibility(refreshed)
	require.NoError(t, err)
	assert.Empty(t, missing)

	rows, err := engine.Predict(context.Background(), refreshed, 2, "C")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestEngineTrainEmptyTable(t *testing.T) {
	engine := testEngine()

	err := engine.Train(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	assert.False(t, engine.Trained())
}

func TestEnginePredictBeforeTrain(t *testing.T) {
	engine := testEngine()

	_, err := engine.Predict(context.Background(), trainingTable(), 7, "")
	assert.ErrorIs(t, err, ErrNotTrained)
}

func TestEnginePredictHorizonBounds(t *testing.T) {
	engine := testEngine()
	table := trainingTable()
	require.NoError(t, engine.Train(context.Background(), table))

	for _, horizon := range []int{0, -1, 61, 1000} {
		_, err := engine.Predict(context.Background(), table, horizon, "")
		assert.Error(t, err, "horizon %d", horizon)
	}

	rows, err := engine.Predict(context.Background(), table, MaxHorizonDays, "A")
	require.NoError(t, err)
	assert.Len(t, rows, MaxHorizonDays)
}

func TestEnginePredictionsDeterministic(t *testing.T) {
	table := trainingTable()

	first := testEngine()
	require.NoError(t, first.Train(context.Background(), table))
	second := testEngine()
	require.NoError(t, second.Train(context.Background(), table))

	a, err := first.Predict(context.Background(), table, 7, "")
	require.NoError(t, err)
	b, err := second.Predict(context.Background(), table, 7, "")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
