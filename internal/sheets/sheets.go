// Package sheets reads and updates volunteer tables stored in Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	DefaultSheetName       = "Sheet1"
	DefaultCredentialsFile = "credentials.json"
)

// Config configures a Client.
type Config struct {
	CredentialsFile string
	SheetName       string
	// Writable requests the read-write scope needed by MarkPDFRequested.
	Writable bool
}

// Client is a records.Source backed by the Sheets v4 values API.
type Client struct {
	svc       *sheets.Service
	sheetName string
}

// New authenticates with a service account credentials file.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = DefaultCredentialsFile
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, records.Unavailable("credentials", err)
	}

	scope := sheets.SpreadsheetsReadonlyScope
	if cfg.Writable {
		scope = sheets.SpreadsheetsScope
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(scope),
	)
	if err != nil {
		return nil, records.Unavailable("creating sheets service", err)
	}
	return NewWithService(svc, cfg.SheetName), nil
}

// NewWithService wraps an existing service.
func NewWithService(svc *sheets.Service, sheetName string) *Client {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &Client{svc: svc, sheetName: sheetName}
}

// Rows implements records.Source. spreadsheetID names the spreadsheet; the
// whole configured sheet is read.
func (c *Client) Rows(ctx context.Context, spreadsheetID string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, c.sheetName).Context(ctx).Do()
	if err != nil {
		logger.Error("Failed to read spreadsheet", logger.Fields{
			"spreadsheet": spreadsheetID,
			"status":      statusCode(err),
		}, err)
		return nil, records.Unavailable("reading spreadsheet "+spreadsheetID, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// MarkPDFRequested records email and sets PDF_Requested to TRUE on the first
// row matching fullName and id. It reports false when no row matched.
func (c *Client) MarkPDFRequested(ctx context.Context, spreadsheetID, fullName, id, email string) (bool, error) {
	rows, err := c.Rows(ctx, spreadsheetID)
	if err != nil {
		return false, err
	}

	table, err := records.NewTable(spreadsheetID, rows)
	if err != nil {
		return false, err
	}
	if err := table.Require(records.EmailColumn, records.PDFRequestedColumn); err != nil {
		return false, err
	}

	matches := table.MatchIndexes(fullName, id)
	if len(matches) == 0 {
		return false, nil
	}

	// Data row i sits on sheet row i+2 (1-based, after the header).
	rowNum := matches[0] + 2
	emailCol, _ := table.Column(records.EmailColumn)
	flagCol, _ := table.Column(records.PDFRequestedColumn)

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*sheets.ValueRange{
			{Range: c.cell(emailCol, rowNum), Values: [][]interface{}{{email}}},
			{Range: c.cell(flagCol, rowNum), Values: [][]interface{}{{"TRUE"}}},
		},
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, records.Unavailable("updating spreadsheet "+spreadsheetID, err)
	}

	logger.Info("Marked PDF requested", logger.Fields{"spreadsheet": spreadsheetID, "row": rowNum})
	return true, nil
}

func (c *Client) cell(col, row int) string {
	return fmt.Sprintf("%s!%s%d", c.sheetName, ColumnLetters(col), row)
}

// ColumnLetters converts a 0-based column index to A1 notation (0 is A, 26 is AA).
func ColumnLetters(col int) string {
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func cellString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return http.StatusServiceUnavailable
}
