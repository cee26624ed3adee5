// Package services hosts the application service between the HTTP
// transport and the analysis pipeline. The service owns the single
// session's pipeline state and serializes train/predict calls against the
// shared forecast engine.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"salespulse/internal/analytics"
	"salespulse/internal/dataset"
	"salespulse/internal/forecast"
	"salespulse/internal/normalize"
	"salespulse/internal/pipeline"
)

// previewRows bounds the number of raw rows echoed back after an upload.
const previewRows = 5

// AnalyzerService drives the normalization, analytics and forecasting
// pipeline for one session.
type AnalyzerService struct {
	mu    sync.Mutex
	state pipeline.State
	ready bool // a raw table has been loaded

	engineConfig forecast.Config
	modelPath    string
	logger       *slog.Logger
}

// Config configures the analyzer service.
type Config struct {
	Engine    forecast.Config
	ModelPath string // where the trained model snapshot is persisted; empty disables persistence
	Logger    *slog.Logger
}

// NewAnalyzerService creates an analyzer service with no dataset loaded.
func NewAnalyzerService(config Config) *AnalyzerService {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &AnalyzerService{
		engineConfig: config.Engine,
		modelPath:    config.ModelPath,
		logger:       config.Logger.With(slog.String("component", "analyzer_service")),
	}
}

// UploadResult describes a freshly loaded dataset: shape, a short
// preview, and the auto-detected column mapping for the user to confirm.
type UploadResult struct {
	DatasetID       string                `json:"dataset_id"`
	Columns         []string              `json:"columns"`
	RowCount        int                   `json:"row_count"`
	Preview         [][]string            `json:"preview"`
	DetectedMapping dataset.ColumnMapping `json:"detected_mapping"`
}

// NormalizeResult reports the outcome of cleaning the raw table.
type NormalizeResult struct {
	RowCount   int                  `json:"row_count"`
	Products   []string             `json:"products"`
	DropReport normalize.DropReport `json:"drop_report"`
}

// PredictResult carries forecast rows together with the staleness
// warning for products the trained model cannot cover.
type PredictResult struct {
	Rows          []forecast.ForecastRow `json:"rows"`
	StaleProducts []string               `json:"stale_products,omitempty"`
}

// LoadDataset reads an uploaded file into a raw table and starts a fresh
// pipeline state over it. The file format is picked from the extension:
// .xlsx/.xls loads as a workbook, everything else as delimited text.
func (s *AnalyzerService) LoadDataset(ctx context.Context, r io.Reader, filename string) (*UploadResult, error) {
	var raw *dataset.RawTable
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		raw, err = dataset.LoadExcel(r)
	default:
		raw, err = dataset.LoadCSV(r)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", filename, err)
	}

	s.mu.Lock()
	s.state = pipeline.Load(raw, s.engineConfig)
	s.ready = true
	state := s.state
	s.mu.Unlock()

	// A previously persisted model keeps serving until the next train.
	if s.modelPath != "" {
		if snapshot, err := forecast.LoadSnapshot(s.modelPath); err == nil {
			if err := state.Engine.Restore(snapshot); err == nil {
				s.logger.InfoContext(ctx, "restored persisted forecast model",
					slog.String("path", s.modelPath),
					slog.Int("products", snapshot.Encoding.Len()))
			}
		}
	}

	preview := raw.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("filename", filename),
		slog.Int("columns", len(raw.Columns)),
		slog.Int("rows", raw.RowCount()))

	return &UploadResult{
		DatasetID:       uuid.New().String(),
		Columns:         raw.Columns,
		RowCount:        raw.RowCount(),
		Preview:         preview,
		DetectedMapping: state.Mapping,
	}, nil
}

// NormalizeDataset cleans the loaded table under the confirmed mapping.
func (s *AnalyzerService) NormalizeDataset(ctx context.Context, mapping dataset.ColumnMapping) (*NormalizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}

	state, err := s.state.Normalize(mapping)
	s.state = state
	if err != nil {
		return &NormalizeResult{DropReport: state.Drops}, err
	}

	return &NormalizeResult{
		RowCount:   len(state.Table),
		Products:   state.Table.Products(),
		DropReport: state.Drops,
	}, nil
}

// Summary computes the dataset-level summary report.
func (s *AnalyzerService) Summary(ctx context.Context) (analytics.SummaryReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return analytics.SummaryReport{}, ErrNoDataset
	}
	return s.state.Summary()
}

// TopLowProducts returns the disjoint top and low product rankings.
func (s *AnalyzerService) TopLowProducts(ctx context.Context, n int) (top, low []analytics.ProductTotal, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, nil, ErrNoDataset
	}
	top, low = s.state.TopLowProducts(n)
	return top, low, nil
}

// ProductSalesSummary returns the per-product breakdown.
func (s *AnalyzerService) ProductSalesSummary(ctx context.Context) ([]analytics.ProductSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}
	return s.state.ProductSalesSummary(), nil
}

// Train fits the forecast model on the current canonical table and
// persists the trained snapshot when a model path is configured.
func (s *AnalyzerService) Train(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNoDataset
	}

	state, err := s.state.Train(ctx)
	if err != nil {
		return err
	}
	s.state = state

	if s.modelPath != "" {
		snapshot, err := state.Engine.Snapshot()
		if err != nil {
			return fmt.Errorf("snapshot model: %w", err)
		}
		if err := forecast.SaveSnapshot(snapshot, s.modelPath); err != nil {
			s.logger.WarnContext(ctx, "failed to persist model snapshot",
				slog.String("path", s.modelPath),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// Predict projects future sales over the given horizon, optionally for a
// single product.
func (s *AnalyzerService) Predict(ctx context.Context, horizonDays int, product string) (*PredictResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}

	state, staleProducts, err := s.state.Predict(ctx, horizonDays, product)
	if err != nil {
		return nil, err
	}
	s.state = state

	return &PredictResult{Rows: state.Forecast, StaleProducts: staleProducts}, nil
}

// Forecast returns the rows of the last prediction, empty when none has
// been made yet.
func (s *AnalyzerService) Forecast(ctx context.Context) ([]forecast.ForecastRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}
	return s.state.Forecast, nil
}

// TopFutureProducts ranks the last forecast by total projected sales.
func (s *AnalyzerService) TopFutureProducts(ctx context.Context, n int) ([]forecast.ProductForecastTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}
	return s.state.TopFutureProducts(n), nil
}

// CanonicalTable returns a copy of the current cleaned table for export.
func (s *AnalyzerService) CanonicalTable(ctx context.Context) (dataset.CanonicalTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNoDataset
	}

	table := make(dataset.CanonicalTable, len(s.state.Table))
	copy(table, s.state.Table)
	return table, nil
}

// ModelTrained reports whether a forecast model is currently available.
func (s *AnalyzerService) ModelTrained(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && s.state.Engine.Trained()
}
