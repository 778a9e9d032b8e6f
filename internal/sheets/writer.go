package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/spice-budget/internal/common"
)

// ReportWriter publishes a report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Writer implements ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(service, config, logger), nil
}

// NewWriterWithService wraps an already configured Sheets service.
func NewWriterWithService(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}
}

// Write replaces the spreadsheet contents with the report.
func (w *Writer) Write(ctx context.Context, report Report) error {
	w.logger.Info("starting report generation",
		"month", report.Month,
		"transactions", len(report.Transactions))

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	retry := func(op func() error) error {
		return common.WithRetry(ctx, func() error { return classifyAPIError(op()) }, retryOpts)
	}

	var spreadsheetID string
	err := retry(func() error {
		var getErr error
		spreadsheetID, getErr = w.getOrCreateSpreadsheet(ctx)
		return getErr
	})
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if err := retry(func() error { return w.clearSheet(ctx, spreadsheetID) }); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := w.prepareReportData(report)

	if err := retry(func() error { return w.writeData(ctx, spreadsheetID, values) }); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		if err := retry(func() error { return w.applyFormatting(ctx, spreadsheetID, len(values)) }); err != nil {
			// The data is already written; formatting is cosmetic.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report generation completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// classifyAPIError stops retries for client errors other than rate limiting.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w", common.ErrServiceUnavailable, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	default:
		return err
	}
}

// tokenSource picks the credentials Config.Auth selects.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.Auth() != AuthServiceAccount {
		oauth := OAuth2Config{ClientID: config.ClientID, ClientSecret: config.ClientSecret}.oauth()
		return oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}), nil
	}
	key, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("read service account key %s: %w", config.ServiceAccountPath, err)
	}
	jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return jwt.TokenSource(ctx), nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}
	return sheets.NewService(ctx, option.WithTokenSource(ts))
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Budget"}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later writes in this run reuse it.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// prepareReportData lays the report out as rows of cells.
func (w *Writer) prepareReportData(report Report) [][]any {
	plan := report.Plan
	values := make([][]any, 0, 40+len(plan.Categories)+len(report.Breakdown)+len(report.Trend)+len(report.Goals)+len(report.Transactions))

	title := report.Period.From + " - " + report.Period.To
	if t, err := time.Parse("2006-01", report.Month); err == nil {
		title = t.Format("January 2006")
	}

	values = append(values,
		[]any{"Budget Report", title},
		[]any{},
		[]any{"Summary"},
		[]any{"Income", money(report.Totals.Income)},
		[]any{"Expense", money(report.Totals.Expense)},
		[]any{"Net", money(report.Totals.Net())},
		[]any{"Savings Rate", fmt.Sprintf("%.1f%%", report.SavingsRate)},
		[]any{"Balance", money(report.Balance)},
		[]any{},
		[]any{"Budget Plan"},
		[]any{"Planned Income", money(plan.PlannedIncome)},
		[]any{"Planned Expense", money(plan.PlannedExpense)},
		[]any{"Projected Balance", money(plan.ProjectedBalance)},
		[]any{"Actual Expense", money(plan.ActualExpense)},
		[]any{"Current Projection", money(plan.CurrentProjection)},
		[]any{},
		[]any{"Category Budgets"},
		[]any{"Category", "Limit", "Spent", "Remaining", "Utilization", "Status"},
	)
	for _, row := range plan.Categories {
		limit := any("")
		remaining := any("")
		if row.Category.HasLimit() {
			limit = money(row.Limit)
			remaining = money(row.Remaining)
		}
		values = append(values, []any{
			row.Category.Name,
			limit,
			money(row.Spend),
			remaining,
			fmt.Sprintf("%.0f%%", row.Utilization),
			string(row.Level),
		})
	}

	values = append(values,
		[]any{},
		[]any{"Expense Breakdown"},
		[]any{"Category", "Total"},
	)
	for _, row := range report.Breakdown {
		values = append(values, []any{row.Name, money(row.Total)})
	}

	values = append(values,
		[]any{},
		[]any{"Monthly Trend"},
		[]any{"Month", "Income", "Expense", "Net"},
	)
	for _, row := range report.Trend {
		values = append(values, []any{row.Month, money(row.Income), money(row.Expense), money(row.Net())})
	}

	values = append(values,
		[]any{},
		[]any{"Goals"},
		[]any{"Goal", "Target", "Current", "Progress", "Months Left"},
	)
	for _, row := range report.Goals {
		monthsLeft := any(row.MonthsLeft)
		if row.MonthsLeft < 0 {
			monthsLeft = "n/a"
		}
		values = append(values, []any{
			row.Goal.Name,
			money(row.Goal.TargetValue),
			money(row.Goal.CurrentValue),
			fmt.Sprintf("%.0f%%", row.Progress),
			monthsLeft,
		})
	}

	values = append(values,
		[]any{},
		[]any{"Transaction Details"},
		[]any{"Date", "Description", "Category", "Type", "Status", "Amount"},
	)
	for _, t := range report.Transactions {
		values = append(values, []any{
			t.Date,
			t.Description,
			t.Category,
			string(t.Type),
			string(t.Status),
			money(t.Amount),
		})
	}

	return values
}

// writeData writes the data to the spreadsheet.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	// Batches keep each request under the API payload limit.
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// column span of the formatted report, Category through Status.
const reportColumns = 6

func gridRange(fromRow, toRow, fromCol, toCol int) *sheets.GridRange {
	return &sheets.GridRange{
		StartRowIndex:    int64(fromRow),
		EndRowIndex:      int64(toRow),
		StartColumnIndex: int64(fromCol),
		EndColumnIndex:   int64(toCol),
	}
}

func formatCells(r *sheets.GridRange, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{RepeatCell: &sheets.RepeatCellRequest{
		Range:  r,
		Cell:   &sheets.CellData{UserEnteredFormat: format},
		Fields: "userEnteredFormat." + fields,
	}}
}

// formattingRequests styles the title, labels and money columns and pins the
// title row.
func (w *Writer) formattingRequests(rows int) []*sheets.Request {
	pattern := w.config.CurrencyPattern
	if pattern == "" {
		pattern = DefaultConfig().CurrencyPattern
	}
	title := &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16}}
	label := &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}}
	amount := &sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: pattern}}

	return []*sheets.Request{
		formatCells(gridRange(0, 1, 0, 2), title, "textFormat"),
		formatCells(gridRange(2, rows, 0, 1), label, "textFormat"),
		formatCells(gridRange(2, rows, 1, reportColumns), amount, "numberFormat"),
		{AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{Dimension: "COLUMNS", EndIndex: reportColumns},
		}},
		{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{GridProperties: &sheets.GridProperties{FrozenRowCount: 1}},
			Fields:     "gridProperties.frozenRowCount",
		}},
	}
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, rows int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: w.formattingRequests(rows)}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}
