// Command analyze runs the full pipeline over a local file: auto-detect
// columns, normalize, write summary and ranking reports, and optionally
// train a model and forecast future sales. Every output table lands as a
// CSV in the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"salespulse/internal/dataset"
	"salespulse/internal/exporter"
	"salespulse/internal/forecast"
	"salespulse/internal/mapper"
	"salespulse/internal/pipeline"
)

func main() {
	inputPath := flag.String("in", "", "input CSV file with sales data (required)")
	outputDir := flag.String("out", "reports", "output directory for report CSVs")
	horizon := flag.Int("horizon", 0, "forecast horizon in days (0 disables forecasting)")
	product := flag.String("product", "", "restrict the forecast to a single product")
	rankSize := flag.Int("n", 10, "number of products in top/low rankings")
	overrides := flag.String("columns", "", "column overrides as role=column pairs, comma separated (roles: date, product, quantity, price, sales)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *horizon < 0 || *horizon > forecast.MaxHorizonDays {
		logger.Error("invalid horizon", slog.Int("horizon", *horizon), slog.Int("max", forecast.MaxHorizonDays))
		os.Exit(2)
	}

	ctx := context.Background()

	raw, err := dataset.LoadCSVFile(*inputPath)
	if err != nil {
		logger.Error("failed to load input", "error", err)
		os.Exit(1)
	}

	state := pipeline.Load(raw, forecast.Config{Logger: logger})

	mapping, err := applyOverrides(state.Mapping, *overrides)
	if err != nil {
		logger.Error("invalid column overrides", "error", err)
		os.Exit(2)
	}
	if !mapping.Complete() {
		logger.Error("could not resolve all required columns; use -columns to specify them",
			slog.String("detected", fmt.Sprintf("%+v", mapping)))
		os.Exit(2)
	}

	state, err = state.Normalize(mapping)
	if err != nil {
		logger.Error("normalization failed", "error", err,
			slog.Int("dropped", state.Drops.Dropped()))
		os.Exit(1)
	}

	logger.Info("dataset normalized",
		slog.Int("rows", len(state.Table)),
		slog.Int("dropped", state.Drops.Dropped()),
		slog.Int("products", len(state.Table.Products())))

	writer := exporter.NewCSVWriter(*outputDir)

	summary, err := state.Summary()
	if err != nil {
		logger.Error("failed to summarize dataset", "error", err)
		os.Exit(1)
	}

	headers, records := exporter.SummaryReport(summary)
	mustWrite(logger, writer, "summary.csv", headers, records)

	top, low := state.TopLowProducts(*rankSize)
	headers, records = exporter.ProductTotals(top)
	mustWrite(logger, writer, "top_products.csv", headers, records)
	headers, records = exporter.ProductTotals(low)
	mustWrite(logger, writer, "low_products.csv", headers, records)

	headers, records = exporter.ProductSummaries(state.ProductSalesSummary())
	mustWrite(logger, writer, "product_summary.csv", headers, records)

	headers, records = exporter.CanonicalTable(state.Table)
	mustWrite(logger, writer, "cleaned_data.csv", headers, records)

	if *horizon > 0 {
		state, err = state.Train(ctx)
		if err != nil {
			logger.Error("training failed", "error", err)
			os.Exit(1)
		}

		var stale []string
		state, stale, err = state.Predict(ctx, *horizon, *product)
		if err != nil {
			logger.Error("prediction failed", "error", err)
			os.Exit(1)
		}
		if len(stale) > 0 {
			logger.Warn("model does not cover all products", slog.Any("missing", stale))
		}

		headers, records = exporter.ForecastRows(state.Forecast)
		mustWrite(logger, writer, "forecast.csv", headers, records)

		headers, records = exporter.FutureProductTotals(state.TopFutureProducts(*rankSize))
		mustWrite(logger, writer, "top_future_products.csv", headers, records)
	}

	logger.Info("analysis complete", slog.String("output_dir", *outputDir))
}

// applyOverrides merges -columns role=name pairs over the detected
// mapping.
func applyOverrides(mapping dataset.ColumnMapping, overrides string) (dataset.ColumnMapping, error) {
	if overrides == "" {
		return mapping, nil
	}

	for _, pair := range strings.Split(overrides, ",") {
		role, column, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || column == "" {
			return mapping, fmt.Errorf("malformed override %q, expected role=column", pair)
		}

		switch mapper.Role(strings.ToLower(role)) {
		case mapper.RoleDate:
			mapping.Date = column
		case mapper.RoleProduct:
			mapping.Product = column
		case mapper.RoleQuantity:
			mapping.Quantity = column
		case mapper.RolePrice:
			mapping.Price = column
		case mapper.RoleSales:
			mapping.Sales = column
		default:
			return mapping, fmt.Errorf("unknown role %q", role)
		}
	}

	return mapping, nil
}

func mustWrite(logger *slog.Logger, writer *exporter.CSVWriter, name string, headers []string, records [][]string) {
	err := writer.WriteCSV(name, exporter.WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
	if err != nil {
		logger.Error("failed to write report", slog.String("file", name), "error", err)
		os.Exit(1)
	}
}
