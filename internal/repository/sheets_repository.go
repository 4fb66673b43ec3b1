package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

// SheetsRepository reads spreadsheet cell ranges through the Google
// Sheets API. The caller supplies a per-request bearer token obtained
// from the admin's linked OAuth session, so no service credentials are
// held by the process.
type SheetsRepository struct {
	cellRange string
	timeout   time.Duration
}

// NewSheetsRepository constructs a sheets repository. cellRange is the
// A1 range fetched from the resolved tab, e.g. "A1:Z1000".
func NewSheetsRepository(cellRange string, timeout time.Duration) *SheetsRepository {
	if cellRange == "" {
		cellRange = "A1:Z1000"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SheetsRepository{cellRange: cellRange, timeout: timeout}
}

// Fetch resolves the tab identifier and returns the raw cell grid. A
// numeric tab identifier is resolved to its sheet title via a metadata
// call; anything else is treated as the title directly.
func (r *SheetsRepository) Fetch(ctx context.Context, spreadsheetID, tabIdentifier, accessToken string) ([][]string, error) {
	if accessToken == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "spreadsheet access token is required")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	title, err := r.resolveTab(ctx, svc, spreadsheetID, tabIdentifier)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, fmt.Sprintf("%s!%s", quoteSheetTitle(title), r.cellRange)).Context(ctx).Do()
	if err != nil {
		return nil, translateSheetsError(err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

func (r *SheetsRepository) resolveTab(ctx context.Context, svc *sheets.Service, spreadsheetID, tabIdentifier string) (string, error) {
	sheetID, numeric := parseSheetID(tabIdentifier)
	if !numeric {
		if tabIdentifier == "" {
			tabIdentifier = "Sheet1"
		}
		return tabIdentifier, nil
	}

	meta, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", translateSheetsError(err)
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.SheetId == sheetID {
			return sheet.Properties.Title, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, "sheet tab not found")
}

// quoteSheetTitle wraps a tab title in single quotes for an A1 range, as
// titles with spaces or punctuation require. Embedded quotes double.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func parseSheetID(identifier string) (int64, bool) {
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func translateSheetsError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return appErrors.Clone(appErrors.ErrAuthRequired, "spreadsheet access token missing or expired, re-authorize sheets access")
		case 404:
			return appErrors.Clone(appErrors.ErrNotFound, "spreadsheet not found")
		}
	}
	return fmt.Errorf("sheets api: %w", err)
}
