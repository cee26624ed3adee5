// Package pipeline threads the session state through the analysis
// operations explicitly: the current canonical table and the forecast
// engine travel as one State value passed into and returned from each
// operation, never as package globals.
package pipeline

import (
	"context"
	"fmt"

	"salespulse/internal/analytics"
	"salespulse/internal/dataset"
	"salespulse/internal/forecast"
	"salespulse/internal/mapper"
	"salespulse/internal/normalize"
)

// State is the explicit session state: the uploaded table, the mapping
// and cleaned table derived from it, the forecast engine, and the last
// produced forecast. Operations return a new State instead of mutating
// shared data; the Engine pointer is the one deliberately stateful member.
type State struct {
	Raw      *dataset.RawTable
	Mapping  dataset.ColumnMapping
	Table    dataset.CanonicalTable
	Drops    normalize.DropReport
	Engine   *forecast.Engine
	Forecast []forecast.ForecastRow
}

// Load starts a session from an uploaded raw table: the column mapping is
// auto-detected and a fresh untrained engine is attached.
func Load(raw *dataset.RawTable, engineConfig forecast.Config) State {
	return State{
		Raw:     raw,
		Mapping: mapper.Detect(raw.Columns),
		Engine:  forecast.NewEngine(engineConfig),
	}
}

// Normalize cleans the raw table under the given (user-confirmed) mapping
// and returns the state carrying the canonical table. A previously cleaned
// table and any stale forecast are superseded.
func (s State) Normalize(mapping dataset.ColumnMapping) (State, error) {
	if s.Raw == nil {
		return s, fmt.Errorf("normalize: no raw table loaded")
	}

	table, drops, err := normalize.Normalize(s.Raw, mapping)
	if err != nil {
		s.Drops = drops
		return s, err
	}

	s.Mapping = mapping
	s.Table = table
	s.Drops = drops
	s.Forecast = nil
	return s, nil
}

// Summary computes the dataset-level summary report.
func (s State) Summary() (analytics.SummaryReport, error) {
	return analytics.Summarize(s.Table)
}

// TopLowProducts ranks the catalogue into disjoint top and low sets.
func (s State) TopLowProducts(n int) (top, low []analytics.ProductTotal) {
	return analytics.TopLowProducts(s.Table, n)
}

// ProductSalesSummary builds the per-product breakdown.
func (s State) ProductSalesSummary() []analytics.ProductSummary {
	return analytics.ProductSalesSummary(s.Table)
}

// Train fits the forecast model on the current canonical table.
func (s State) Train(ctx context.Context) (State, error) {
	if err := s.Engine.Train(ctx, s.Table); err != nil {
		return s, err
	}
	return s, nil
}

// Predict projects future sales and stores the forecast on the returned
// state. The staleProducts result lists table products the trained model
// cannot forecast; they are skipped in the rows.
func (s State) Predict(ctx context.Context, horizonDays int, selectedProduct string) (State, []string, error) {
	staleProducts, err := s.Engine.CheckCompatibility(s.Table)
	if err != nil {
		return s, nil, err
	}

	rows, err := s.Engine.Predict(ctx, s.Table, horizonDays, selectedProduct)
	if err != nil {
		return s, staleProducts, err
	}

	s.Forecast = rows
	return s, staleProducts, nil
}

// TopFutureProducts ranks the stored forecast by total projected sales.
func (s State) TopFutureProducts(n int) []forecast.ProductForecastTotal {
	return forecast.TopFutureProducts(s.Forecast, n)
}
