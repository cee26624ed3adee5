package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"salespulse/internal/dataset"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/forecast/regress"
)

// Horizon bounds for prediction requests.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 60
)

// ErrNotTrained is returned by Predict before any successful Train or
// Restore call.
var ErrNotTrained = errors.New("forecast model not trained")

// ForecastRow is one projected (date, product) sales value.
type ForecastRow struct {
	Date           time.Time `json:"date"`
	Product        string    `json:"product"`
	PredictedSales float64   `json:"predicted_sales"`
}

// trainedModel is the (model, encoding) pair the engine swaps atomically
// on retrain. Holding both in one value guarantees a reader never sees a
// model paired with a foreign encoding.
type trainedModel struct {
	model    regress.Regressor
	encoding *ProductEncoding
}

// Config configures a forecast engine.
type Config struct {
	Forest regress.ForestConfig // regressor settings; zero value uses defaults
	Logger *slog.Logger
	Now    func() time.Time // injectable clock; defaults to time.Now
}

// Engine owns the trained forecast model and its product encoding. Train
// replaces the pair, Predict reads it; both may be called from the service
// layer on the same instance.
type Engine struct {
	mu      sync.RWMutex
	current *trainedModel

	forestConfig regress.ForestConfig
	logger       *slog.Logger
	now          func() time.Time
}

// NewEngine creates an untrained forecast engine.
func NewEngine(config Config) *Engine {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Forest.Trees <= 0 {
		config.Forest = regress.DefaultForestConfig()
	}

	return &Engine{
		forestConfig: config.Forest,
		logger:       config.Logger.With(slog.String("component", "forecast_engine")),
		now:          config.Now,
	}
}

// Trained reports whether the engine holds a usable model.
func (e *Engine) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current != nil
}

// Train fits a fresh model and product encoding over the table's daily
// per-product sales and swaps them in as one unit. On any failure the
// previously trained pair stays untouched.
func (e *Engine) Train(ctx context.Context, table dataset.CanonicalTable) error {
	if table.Empty() {
		return fmt.Errorf("train: %w", apperrors.ErrEmptyInput)
	}

	series := buildDailySeries(table)
	encoding := NewProductEncoding(table.Products())

	features, targets := trainingMatrix(series, encoding)

	e.logger.InfoContext(ctx, "training forecast model",
		slog.Int("daily_points", len(series)),
		slog.Int("products", encoding.Len()),
		slog.Int("trees", e.forestConfig.Trees))

	forest := regress.NewForest(e.forestConfig)
	if err := forest.Fit(features, targets); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	e.mu.Lock()
	e.current = &trainedModel{model: forest, encoding: encoding}
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "forecast model trained",
		slog.Int("training_samples", len(targets)))

	return nil
}

// Predict projects daily sales for the next horizonDays calendar days,
// starting tomorrow relative to the engine clock. With selectedProduct
// empty every product in the table is forecast; otherwise only that one.
//
// Products absent from the trained encoding are silently skipped; use
// CheckCompatibility beforehand to detect staleness for the whole dataset.
func (e *Engine) Predict(ctx context.Context, table dataset.CanonicalTable, horizonDays int, selectedProduct string) ([]ForecastRow, error) {
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("horizon %d days out of range [%d, %d]", horizonDays, MinHorizonDays, MaxHorizonDays)
	}

	e.mu.RLock()
	current := e.current
	e.mu.RUnlock()

	if current == nil {
		return nil, ErrNotTrained
	}

	products := table.Products()
	if selectedProduct != "" {
		products = []string{selectedProduct}
	}

	// Forecasts always run from today forward, regardless of how stale
	// the uploaded dataset is.
	now := e.now()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	var rows []ForecastRow
	skipped := 0

	for _, product := range products {
		code, ok := current.encoding.Code(product)
		if !ok {
			skipped++
			e.logger.DebugContext(ctx, "skipping product absent from encoding",
				slog.String("product", product))
			continue
		}

		history := historyLength(table, product)
		if history == 0 {
			skipped++
			continue
		}

		features := make([][]float64, horizonDays)
		dates := make([]time.Time, horizonDays)
		for d := 0; d < horizonDays; d++ {
			date := tomorrow.AddDate(0, 0, d)
			dates[d] = date
			features[d] = featureVector(history+d, date, code)
		}

		predictions := current.model.Predict(features)
		for d, predicted := range predictions {
			rows = append(rows, ForecastRow{
				Date:           dates[d],
				Product:        product,
				PredictedSales: predicted,
			})
		}
	}

	e.logger.InfoContext(ctx, "forecast generated",
		slog.Int("horizon_days", horizonDays),
		slog.Int("products", len(products)-skipped),
		slog.Int("skipped", skipped),
		slog.Int("rows", len(rows)))

	return rows, nil
}

// CheckCompatibility returns the products in the table that the trained
// encoding does not cover. A non-empty result means the model is stale and
// predictions would silently skip those products; callers should offer
// retraining.
func (e *Engine) CheckCompatibility(table dataset.CanonicalTable) ([]string, error) {
	e.mu.RLock()
	current := e.current
	e.mu.RUnlock()

	if current == nil {
		return nil, ErrNotTrained
	}

	return current.encoding.Missing(table.Products()), nil
}
