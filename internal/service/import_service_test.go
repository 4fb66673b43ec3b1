package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type sheetFetcherStub struct {
	grid [][]string
	err  error
}

func (s *sheetFetcherStub) Fetch(ctx context.Context, spreadsheetID, tabIdentifier, accessToken string) ([][]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grid, nil
}

type catalogWriterStub struct {
	upserts  []models.CertificationRow
	existing map[string]bool
	failOn   string
}

func (s *catalogWriterStub) Upsert(ctx context.Context, row *models.CertificationRow) (bool, error) {
	if s.failOn != "" && row.CertificationName == s.failOn {
		return false, errors.New("storage unavailable")
	}
	s.upserts = append(s.upserts, *row)
	return !s.existing[row.CertificationName], nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) InvalidateCache(ctx context.Context) { s.calls++ }

type auditLoggerStub struct {
	logs []*models.AuditLog
}

func (a *auditLoggerStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newImportService(fetcher sheetFetcher, writer importCatalogWriter) (*ImportService, *invalidatorStub, *auditLoggerStub) {
	inv := &invalidatorStub{}
	audit := &auditLoggerStub{}
	return NewImportService(fetcher, writer, inv, audit, nil, nil), inv, audit
}

func TestImportDistinguishesPriceColumns(t *testing.T) {
	fetcher := &sheetFetcherStub{grid: [][]string{
		{"Certification Name", "Domain", "Price", "Price in EUR"},
		{"X", "Cloud", "$120.50", "€110"},
	}}
	writer := &catalogWriterStub{}
	svc, inv, _ := newImportService(fetcher, writer)

	result, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)

	require.Len(t, writer.upserts, 1)
	row := writer.upserts[0]
	assert.Equal(t, "X", row.CertificationName)
	assert.Equal(t, "Cloud", row.Domain)
	assert.Equal(t, 120.50, row.Price)
	assert.Equal(t, 110.0, row.PriceInEUR)
	assert.Equal(t, 1, inv.calls)
}

func TestImportHeaderOnlyFailsWithNoData(t *testing.T) {
	fetcher := &sheetFetcherStub{grid: [][]string{
		{"Certification Name", "Domain"},
	}}
	writer := &catalogWriterStub{}
	svc, _, _ := newImportService(fetcher, writer)

	_, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNoData.Code, appErr.Code)
	assert.Empty(t, writer.upserts, "no upserts on no-data failure")
}

func TestImportMissingNameColumn(t *testing.T) {
	fetcher := &sheetFetcherStub{grid: [][]string{
		{"Domain", "Price"},
		{"Cloud", "100"},
	}}
	svc, _, _ := newImportService(fetcher, &catalogWriterStub{})

	_, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrMissingColumn.Code, appErr.Code)
}

func TestImportAppliesDefaultsAndDropsUnknownNames(t *testing.T) {
	fetcher := &sheetFetcherStub{grid: [][]string{
		{"Name", "Domain", "Currency"},
		{"Valid Cert", "", ""},
		{"", "Cloud", "EUR"},
	}}
	writer := &catalogWriterStub{}
	svc, _, _ := newImportService(fetcher, writer)

	result, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 1, result.SkippedCount)

	require.Len(t, writer.upserts, 1)
	row := writer.upserts[0]
	assert.Equal(t, "Valid Cert", row.CertificationName)
	assert.Equal(t, "Other", row.Domain)
	assert.Equal(t, "USD", row.Currency)
	assert.False(t, row.LastChecked.IsZero())
}

func TestImportContinuesPastRowFailures(t *testing.T) {
	fetcher := &sheetFetcherStub{grid: [][]string{
		{"Name"},
		{"Broken Cert"},
		{"Good Cert"},
	}}
	writer := &catalogWriterStub{failOn: "Broken Cert"}
	svc, _, audit := newImportService(fetcher, writer)

	result, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 1, result.SkippedCount)
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0], "Broken Cert")
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionImport, audit.logs[0].Action)
}

func TestImportPropagatesFetchErrors(t *testing.T) {
	fetcher := &sheetFetcherStub{err: appErrors.Clone(appErrors.ErrAuthRequired, "token expired")}
	svc, _, _ := newImportService(fetcher, &catalogWriterStub{})

	_, err := svc.ImportFrom(context.Background(), "admin", "sheet-1", "", "token")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrAuthRequired.Code, appErr.Code)
}

func TestMapColumnsKeywordTable(t *testing.T) {
	headers := []string{"Certification Name", "Area", "Technology / Framework", "Experience Level", "Quality", "URL", "Provider", "Price (USD)", "Price in EUR", "Currency", "Last Checked", "Notes"}
	columns := mapColumns(headers)

	assert.Equal(t, 0, columns["name"])
	assert.Equal(t, 1, columns["domain"])
	assert.Equal(t, 2, columns["tech"])
	assert.Equal(t, 3, columns["level"])
	assert.Equal(t, 4, columns["quality"])
	assert.Equal(t, 5, columns["url"])
	assert.Equal(t, 6, columns["provider"])
	assert.Equal(t, 7, columns["price"])
	assert.Equal(t, 8, columns["price_in_eur"])
	assert.Equal(t, 9, columns["currency"])
	assert.Equal(t, 10, columns["last_checked"])
	assert.Equal(t, 11, columns["notes"])
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 120.5, parsePrice("$120.50"))
	assert.Equal(t, 110.0, parsePrice("€110"))
	assert.Equal(t, 0.0, parsePrice(""))
	assert.Equal(t, 0.0, parsePrice("n/a"))
	assert.Equal(t, -5.0, parsePrice("-5"))
}
