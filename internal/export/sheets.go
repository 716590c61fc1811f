// Package export writes aggregate sales reports to Google Sheets.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	applog "brewboard/internal/log"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// NewSheetsExporter builds a Sheets client from Service Account
// credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName string, logger *applog.Logger) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(applog.ComponentExport),
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credsJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case credsJSON != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsJSON([]byte(credsJSON)),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	case credsFile != "":
		return gsheet.NewService(ctx,
			goption.WithCredentialsFile(credsFile),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	default:
		return nil, errors.New("no Service Account credentials configured")
	}
}

// WriteReport replaces the target sheet's contents with the report.
func (e *SheetsExporter) WriteReport(ctx context.Context, report *Report) error {
	clear := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, e.sheetName+"!A:Z", &gsheet.ClearValuesRequest{})
	if _, err := clear.Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	vr := &gsheet.ValueRange{Values: report.Rows()}
	update := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, report.A1Range(e.sheetName), vr).
		ValueInputOption("USER_ENTERED")
	if _, err := update.Context(ctx).Do(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.logger.InfoContext(ctx, "Report exported",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		applog.FieldRows, len(report.Rows()))
	return nil
}
