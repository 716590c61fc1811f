// Command export-sheets writes a one-shot sales report to Google Sheets.
// Filters mirror the dashboard's query params, passed as flags.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"brewboard/internal/backend"
	"brewboard/internal/cli"
	"brewboard/internal/core"
	"brewboard/internal/export"
	applog "brewboard/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	preset := flag.String("preset", "all", "date preset (all, last_7_days, last_30_days, ...)")
	cities := flag.String("cities", "", "comma-separated city filter")
	products := flag.String("products", "", "comma-separated product filter")
	flag.Parse()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for export")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	source, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dataset backend", applog.FieldError, err)
		os.Exit(1)
	}
	defer source.Close()

	ds, err := source.Load(ctx)
	if err != nil {
		logger.Error("Failed to load dataset", applog.FieldError, err)
		os.Exit(1)
	}

	criteria := core.Criteria{
		Cities:   splitList(*cities),
		Products: splitList(*products),
	}
	if p := core.Preset(*preset); p != core.PresetAll {
		if !p.Valid() || p == core.PresetCustom {
			logger.Error("Unknown preset", applog.FieldPreset, *preset)
			os.Exit(1)
		}
		r, err := core.ResolvePreset(p, time.Now())
		if err != nil {
			logger.Error("Failed to resolve preset", applog.FieldError, err)
			os.Exit(1)
		}
		criteria.Range = &r
	}

	report, err := export.BuildReport(ds, criteria)
	if err != nil {
		logger.Error("Failed to build report", applog.FieldError, err)
		os.Exit(1)
	}

	exporter, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", applog.FieldError, err)
		os.Exit(1)
	}
	if err := exporter.WriteReport(ctx, report); err != nil {
		logger.Error("Failed to write report", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Report exported",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		applog.FieldRows, report.Metrics.Transactions)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
