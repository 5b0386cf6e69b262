// Package google implements the persistence sink on a Google
// Spreadsheet with three worksheets: Transactions (append-only row
// log), Categories (classification rule overrides) and Dashboard
// (regenerated grid of labeled cells).
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"folio/internal/classify"
	"folio/internal/core"
	ports "folio/internal/sheets"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	categoriesSheet   string
	dashboardSheet    string

	// Numeric sheet id of the dashboard worksheet, resolved lazily for
	// format requests.
	dashboardSheetID int64
	dashboardKnown   bool
}

var _ ports.Sink = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID or GOOGLE_SPREADSHEET_NAME (exactly one).
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
// Optional worksheet names: GOOGLE_TRANSACTIONS_SHEET_NAME (default
// "Transactions"), GOOGLE_CATEGORIES_SHEET_NAME (default "Categories"),
// GOOGLE_DASHBOARD_SHEET_NAME (default "Dashboard").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	spreadsheetName := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_NAME"))
	switch {
	case spreadsheetID == "" && spreadsheetName == "":
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID or GOOGLE_SPREADSHEET_NAME")
	case spreadsheetID != "" && spreadsheetName != "":
		return nil, errors.New("GOOGLE_SPREADSHEET_ID and GOOGLE_SPREADSHEET_NAME are mutually exclusive")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	if spreadsheetID == "" {
		spreadsheetID, err = resolveSpreadsheetID(ctx, spreadsheetName)
		if err != nil {
			return nil, fmt.Errorf("resolve spreadsheet %q: %w", spreadsheetName, err)
		}
		slog.InfoContext(ctx, "Resolved spreadsheet by name",
			"name", spreadsheetName, "spreadsheet_id", spreadsheetID)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: envOr("GOOGLE_TRANSACTIONS_SHEET_NAME", "Transactions"),
		categoriesSheet:   envOr("GOOGLE_CATEGORIES_SHEET_NAME", "Categories"),
		dashboardSheet:    envOr("GOOGLE_DASHBOARD_SHEET_NAME", "Dashboard"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets Service using service account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, err := loadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope, gsheet.DriveScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func loadCredentials(ctx context.Context) ([]byte, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case serviceAccountJSON != "":
		return []byte(serviceAccountJSON), nil
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Ping verifies the spreadsheet is reachable. Called once at the start
// of a run; a failure here is fatal for the run.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return core.ErrSinkUnavailable
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkUnavailable, err)
	}
	return nil
}

func (c *Client) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	rng := fmt.Sprintf("%s!A:H", c.transactionsSheet)
	vr := &gsheet.ValueRange{Values: toAnyRows(rows)}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), c.transactionsSheet, err)
	}
	return nil
}

func (c *Client) ReadAllRows(ctx context.Context) ([][]string, error) {
	rng := fmt.Sprintf("%s!A:H", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func (c *Client) ReadColumn(ctx context.Context, index int) ([]string, error) {
	letter, err := columnLetter(index)
	if err != nil {
		return nil, err
	}
	rng := fmt.Sprintf("%s!%s:%s", c.transactionsSheet, letter, letter)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	var out []string
	for i, row := range resp.Values {
		if i == 0 || len(row) == 0 {
			// Skip the header row.
			continue
		}
		out = append(out, strings.TrimSpace(fmt.Sprint(row[0])))
	}
	return out, nil
}

// BatchWrite applies a group of dashboard writes as a single values
// batch-update call.
func (c *Client) BatchWrite(ctx context.Context, writes []ports.ValueWrite) error {
	if len(writes) == 0 {
		return nil
	}
	data := make([]*gsheet.ValueRange, 0, len(writes))
	for _, w := range writes {
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!%s", c.dashboardSheet, w.Location),
			Values: toAnyRows(w.Values),
		})
	}
	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch update %d ranges on %s: %w", len(writes), c.dashboardSheet, err)
	}
	return nil
}

func (c *Client) Clear(ctx context.Context) error {
	rng := fmt.Sprintf("%s!A:Z", c.dashboardSheet)
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// ApplyFormat styles a single dashboard cell. Format failures never
// abort a run; callers log and continue.
func (c *Client) ApplyFormat(ctx context.Context, location string, style ports.CellStyle) error {
	sheetID, err := c.resolveDashboardSheetID(ctx)
	if err != nil {
		return err
	}
	gridRange, err := a1ToGridRange(sheetID, location)
	if err != nil {
		return err
	}
	textFormat := &gsheet.TextFormat{Bold: style.Bold}
	if style.FontSize > 0 {
		textFormat.FontSize = int64(style.FontSize)
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			RepeatCell: &gsheet.RepeatCellRequest{
				Range:  gridRange,
				Cell:   &gsheet.CellData{UserEnteredFormat: &gsheet.CellFormat{TextFormat: textFormat}},
				Fields: "userEnteredFormat.textFormat",
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("format %s!%s: %w", c.dashboardSheet, location, err)
	}
	return nil
}

func (c *Client) ListRules(ctx context.Context) ([]classify.Rule, error) {
	rng := fmt.Sprintf("%s!A:B", c.categoriesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, toStrings(row))
	}
	return classify.ParseRuleRows(rows), nil
}

func (c *Client) resolveDashboardSheetID(ctx context.Context) (int64, error) {
	if c.dashboardKnown {
		return c.dashboardSheetID, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.dashboardSheet {
			c.dashboardSheetID = sh.Properties.SheetId
			c.dashboardKnown = true
			return c.dashboardSheetID, nil
		}
	}
	return 0, fmt.Errorf("dashboard worksheet %q not found", c.dashboardSheet)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toAnyRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
