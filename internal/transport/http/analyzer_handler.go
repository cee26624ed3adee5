package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"salespulse/internal/dataset"
	apierrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/forecast"
	"salespulse/internal/services"
)

// defaultRankSize is used when a ranking endpoint gets no n parameter.
const defaultRankSize = 10

// AnalyzerHandler handles the analysis pipeline HTTP requests.
type AnalyzerHandler struct {
	service        *services.AnalyzerService
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAnalyzerHandler creates a new analyzer handler.
func NewAnalyzerHandler(service *services.AnalyzerService, logger *slog.Logger, maxUploadBytes int64) *AnalyzerHandler {
	return &AnalyzerHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "analyzer_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analyzer routes.
func (h *AnalyzerHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/datasets", h.UploadDataset)
	r.Post("/datasets/normalize", h.NormalizeDataset)

	r.Get("/summary", h.GetSummary)
	r.Route("/products", func(r chi.Router) {
		r.Get("/top-low", h.GetTopLowProducts)
		r.Get("/summary", h.GetProductSummary)
	})

	r.Route("/forecast", func(r chi.Router) {
		r.Post("/train", h.TrainModel)
		r.Post("/predict", h.Predict)
		r.Get("/top", h.GetTopFutureProducts)
	})

	r.Get("/export/{table}", h.ExportTable)

	return r
}

// UploadDataset accepts a multipart CSV or Excel upload and responds with
// the table shape and the auto-detected column mapping.
func (h *AnalyzerHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, apierrors.ErrValidation("file", "multipart file field is required"))
		return
	}
	defer file.Close()

	result, err := h.service.LoadDataset(r.Context(), file, header.Filename)
	if err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	render.JSON(w, r, result)
}

// NormalizeRequest carries the user-confirmed column mapping.
type NormalizeRequest struct {
	Mapping dataset.ColumnMapping `json:"mapping" validate:"required"`
}

// NormalizeDataset cleans the uploaded table under the confirmed mapping.
func (h *AnalyzerHandler) NormalizeDataset(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, err := h.service.NormalizeDataset(r.Context(), req.Mapping)
	if err != nil {
		// The drop report still matters when cleaning dropped everything.
		if result != nil && errors.Is(err, apierrors.ErrNoUsableRows) {
			h.renderError(w, r, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity,
				"NO_USABLE_DATA",
				"Dataset contains no usable rows after cleaning",
				result.DropReport,
			))
			return
		}
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GetSummary responds with the dataset-level summary report.
func (h *AnalyzerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Summary(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetTopLowProducts responds with the disjoint top and low rankings.
func (h *AnalyzerHandler) GetTopLowProducts(w http.ResponseWriter, r *http.Request) {
	n, err := rankSize(r)
	if err != nil {
		h.renderError(w, r, apierrors.ErrValidation("n", err.Error()))
		return
	}

	top, low, err := h.service.TopLowProducts(r.Context(), n)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"top": top,
		"low": low,
	})
}

// GetProductSummary responds with the per-product sales breakdown.
func (h *AnalyzerHandler) GetProductSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ProductSalesSummary(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, summaries)
}

// TrainModel fits the forecast model on the current canonical table.
func (h *AnalyzerHandler) TrainModel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Train(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"status": "trained"})
}

// PredictRequest asks for a forecast over the given horizon, optionally
// restricted to one product.
type PredictRequest struct {
	HorizonDays int    `json:"horizon_days" validate:"required,min=1,max=60"`
	Product     string `json:"product,omitempty"`
}

// Predict responds with the projected daily sales rows.
func (h *AnalyzerHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderError(w, r, apierrors.ErrValidation("horizon_days", "horizon must be between 1 and 60 days"))
		return
	}

	result, err := h.service.Predict(r.Context(), req.HorizonDays, req.Product)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// GetTopFutureProducts ranks the last forecast by total projected sales.
func (h *AnalyzerHandler) GetTopFutureProducts(w http.ResponseWriter, r *http.Request) {
	n, err := rankSize(r)
	if err != nil {
		h.renderError(w, r, apierrors.ErrValidation("n", err.Error()))
		return
	}

	totals, err := h.service.TopFutureProducts(r.Context(), n)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, totals)
}

// ExportTable streams one of the output tables as CSV.
func (h *AnalyzerHandler) ExportTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	headers, records, err := h.exportRecords(r, table)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+table+".csv\"")

	if err := exporter.WriteTo(w, headers, records); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream CSV export",
			slog.String("table", table),
			slog.String("error", err.Error()))
	}
}

// exportRecords builds the CSV payload for the named output table.
func (h *AnalyzerHandler) exportRecords(r *http.Request, table string) ([]string, [][]string, error) {
	ctx := r.Context()

	switch table {
	case "canonical":
		t, err := h.service.CanonicalTable(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.CanonicalTable(t)
		return headers, records, nil

	case "summary":
		report, err := h.service.Summary(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.SummaryReport(report)
		return headers, records, nil

	case "top-products":
		top, _, err := h.service.TopLowProducts(ctx, defaultRankSize)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ProductTotals(top)
		return headers, records, nil

	case "low-products":
		_, low, err := h.service.TopLowProducts(ctx, defaultRankSize)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ProductTotals(low)
		return headers, records, nil

	case "product-summary":
		summaries, err := h.service.ProductSalesSummary(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ProductSummaries(summaries)
		return headers, records, nil

	case "forecast":
		rows, err := h.service.Forecast(ctx)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.ForecastRows(rows)
		return headers, records, nil

	case "top-future":
		totals, err := h.service.TopFutureProducts(ctx, defaultRankSize)
		if err != nil {
			return nil, nil, err
		}
		headers, records := exporter.FutureProductTotals(totals)
		return headers, records, nil

	default:
		return nil, nil, apierrors.NotFoundError("export table " + table)
	}
}

// rankSize parses the optional n query parameter.
func rankSize(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return defaultRankSize, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("n must be a positive integer")
	}
	return n, nil
}

// renderError maps service and domain errors onto API error responses.
func (h *AnalyzerHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierrors.APIError
	var schemaErr *apierrors.SchemaError

	switch {
	case errors.As(err, &apiErr):
		// already shaped
	case errors.As(err, &schemaErr):
		apiErr = apierrors.SchemaErrorResponse(schemaErr)
	case errors.Is(err, services.ErrNoDataset):
		apiErr = apierrors.ErrDatasetNotFound
	case errors.Is(err, forecast.ErrNotTrained):
		apiErr = apierrors.ErrModelNotFound
	case errors.Is(err, apierrors.ErrEmptyInput), errors.Is(err, apierrors.ErrNoUsableRows):
		apiErr = apierrors.ErrNoUsableData
	default:
		h.logger.ErrorContext(r.Context(), "unhandled service error",
			slog.String("error", err.Error()))
		apiErr = apierrors.ErrInternalServer
	}

	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}
