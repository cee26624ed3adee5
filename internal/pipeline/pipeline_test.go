package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/dataset"
	"salespulse/internal/forecast"
	"salespulse/internal/forecast/regress"
)

func testRaw() *dataset.RawTable {
	raw := &dataset.RawTable{
		Columns: []string{"OrderDate", "SKU", "Qty", "UnitPrice"},
	}
	for d := 1; d <= 10; d++ {
		day := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		raw.Rows = append(raw.Rows,
			[]string{day, "A", "2", "5.0"},
			[]string{day, "B", "1", "10.0"},
		)
	}
	return raw
}

func testConfig() forecast.Config {
	return forecast.Config{
		Forest: regress.ForestConfig{Trees: 10, MaxDepth: 5, Seed: 42},
		Now: func() time.Time {
			return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
		},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	ctx := context.Background()

	state := Load(testRaw(), testConfig())
	require.NotNil(t, state.Engine)
	assert.Equal(t, "OrderDate", state.Mapping.Date)
	assert.Equal(t, "SKU", state.Mapping.Product)
	assert.True(t, state.Mapping.Complete())

	state, err := state.Normalize(state.Mapping)
	require.NoError(t, err)
	require.Len(t, state.Table, 20)
	assert.Equal(t, 0, state.Drops.Dropped())

	summary, err := state.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DistinctProductCount)
	assert.Equal(t, "A", summary.BestSellingProduct, "A totals 100, B totals 100; first encountered wins")

	top, low := state.TopLowProducts(10)
	assert.Len(t, top, 1)
	assert.Len(t, low, 1)

	breakdown := state.ProductSalesSummary()
	require.Len(t, breakdown, 2)

	state, err = state.Train(ctx)
	require.NoError(t, err)
	require.True(t, state.Engine.Trained())

	state, stale, err := state.Predict(ctx, 7, "")
	require.NoError(t, err)
	assert.Empty(t, stale)
	assert.Len(t, state.Forecast, 14)

	ranked := state.TopFutureProducts(5)
	assert.Len(t, ranked, 2)
}

func TestPipelineNormalizeWithoutRaw(t *testing.T) {
	var state State
	_, err := state.Normalize(dataset.ColumnMapping{})
	assert.Error(t, err)
}

func TestPipelineNormalizeSupersedesForecast(t *testing.T) {
	ctx := context.Background()

	state := Load(testRaw(), testConfig())
	state, err := state.Normalize(state.Mapping)
	require.NoError(t, err)

	state, err = state.Train(ctx)
	require.NoError(t, err)
	state, _, err = state.Predict(ctx, 3, "")
	require.NoError(t, err)
	require.NotEmpty(t, state.Forecast)

	state, err = state.Normalize(state.Mapping)
	require.NoError(t, err)
	assert.Nil(t, state.Forecast, "re-cleaning invalidates the stored forecast")
}

func TestPipelineValueSemantics(t *testing.T) {
	state := Load(testRaw(), testConfig())

	normalized, err := state.Normalize(state.Mapping)
	require.NoError(t, err)

	assert.Nil(t, state.Table, "original state is untouched")
	assert.NotNil(t, normalized.Table)
	assert.Same(t, state.Engine, normalized.Engine)
}
