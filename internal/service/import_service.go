package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

const unknownName = "Unknown"

type sheetFetcher interface {
	Fetch(ctx context.Context, spreadsheetID, tabIdentifier, accessToken string) ([][]string, error)
}

type importCatalogWriter interface {
	Upsert(ctx context.Context, row *models.CertificationRow) (bool, error)
}

// columnKeywords maps each catalog field to the header keywords that
// select its column. The first header containing any keyword wins, and
// fields are resolved in this order so broad keywords like "name" cannot
// claim a more specific header first. price_in_eur is special cased in
// mapColumns because its header must contain both "price" and "eur" to
// disambiguate from plain price.
var columnKeywords = []struct {
	field    string
	keywords []string
}{
	{"name", []string{"certification name", "name"}},
	{"domain", []string{"domain", "area"}},
	{"tech", []string{"technology", "language", "framework"}},
	{"level", []string{"experience level", "level"}},
	{"quality", []string{"quality"}},
	{"url", []string{"url"}},
	{"provider", []string{"provider"}},
	{"price", []string{"price"}},
	{"currency", []string{"currency"}},
	{"last_checked", []string{"last checked", "checked"}},
	{"notes", []string{"notes"}},
}

// ImportService pulls catalog rows out of a Google spreadsheet: maps
// headers to fields by keyword, applies per-field defaults and upserts
// row by row, continuing past individual failures.
type ImportService struct {
	sheets  sheetFetcher
	catalog importCatalogWriter
	cache   catalogInvalidator
	audit   auditRecorder
	metrics *MetricsService
	logger  *zap.Logger
}

// NewImportService constructs an ImportService instance.
func NewImportService(sheets sheetFetcher, catalog importCatalogWriter, cache catalogInvalidator, audit auditRecorder, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{sheets: sheets, catalog: catalog, cache: cache, audit: audit, metrics: metrics, logger: logger}
}

// ImportFrom runs one synchronous import and reports row outcomes.
func (s *ImportService) ImportFrom(ctx context.Context, adminID, spreadsheetID, tabIdentifier, accessToken string) (*dto.ImportResult, error) {
	start := time.Now()

	if spreadsheetID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "spreadsheet id is required")
	}

	grid, err := s.sheets.Fetch(ctx, spreadsheetID, tabIdentifier, accessToken)
	if err != nil {
		return nil, err
	}
	if len(grid) < 2 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "sheet needs a header row and at least one data row")
	}

	columns := mapColumns(grid[0])
	if _, ok := columns["name"]; !ok {
		return nil, appErrors.Clone(appErrors.ErrMissingColumn, "no header matches the certification name column")
	}

	result := &dto.ImportResult{}
	for i, row := range grid[1:] {
		cert := mapRow(row, columns)
		if cert.CertificationName == "" || cert.CertificationName == unknownName {
			result.SkippedCount++
			continue
		}
		created, err := s.catalog.Upsert(ctx, cert)
		if err != nil {
			s.logger.Warn("import row failed",
				zap.Int("row", i+2),
				zap.String("name", cert.CertificationName),
				zap.Error(err))
			result.SkippedCount++
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d (%s): %v", i+2, cert.CertificationName, err))
			continue
		}
		result.ImportedCount++
		if created {
			result.CreatedCount++
		} else {
			result.UpdatedCount++
		}
	}

	if s.cache != nil && result.ImportedCount > 0 {
		s.cache.InvalidateCache(ctx)
	}
	if s.metrics != nil {
		s.metrics.RecordImport(result.ImportedCount, result.SkippedCount, time.Since(start))
	}
	if s.audit != nil {
		payload, _ := json.Marshal(map[string]int{"imported": result.ImportedCount, "skipped": result.SkippedCount})
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &adminID,
			Action:     models.AuditActionImport,
			Resource:   "catalog",
			ResourceID: &spreadsheetID,
			NewValues:  payload,
		}); err != nil {
			s.logger.Warn("failed to record import audit log", zap.Error(err))
		}
	}

	s.logger.Info("catalog import finished",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.Int("imported", result.ImportedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Duration("took", time.Since(start)))
	return result, nil
}

// mapColumns resolves each target field to a header index. Headers are
// lower-cased and trimmed before matching.
func mapColumns(headers []string) map[string]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := make(map[string]int)

	// price_in_eur first, so the plain price keyword cannot claim its
	// header.
	claimed := make(map[int]bool)
	for i, h := range normalized {
		if strings.Contains(h, "price") && strings.Contains(h, "eur") {
			columns["price_in_eur"] = i
			claimed[i] = true
			break
		}
	}

	for _, target := range columnKeywords {
		for i, h := range normalized {
			if claimed[i] {
				continue
			}
			if headerMatches(h, target.keywords) {
				columns[target.field] = i
				break
			}
		}
	}
	return columns
}

func headerMatches(header string, keywords []string) bool {
	if header == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// mapRow extracts one catalog row, applying per-field defaults for
// missing or empty cells.
func mapRow(row []string, columns map[string]int) *models.CertificationRow {
	cell := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := cell("name")
	if name == "" {
		name = unknownName
	}
	domain := cell("domain")
	if domain == "" {
		domain = "Other"
	}
	currency := cell("currency")
	if currency == "" {
		currency = "USD"
	}
	lastChecked := parseTimestamp(cell("last_checked"))

	return &models.CertificationRow{
		CertificationName:  name,
		Domain:             domain,
		LanguageFramework:  cell("tech"),
		URL:                cell("url"),
		Provider:           cell("provider"),
		Price:              parsePrice(cell("price")),
		Currency:           currency,
		ExperienceLevel:    cell("level"),
		CertificateQuality: cell("quality"),
		LastChecked:        lastChecked,
		Notes:              cell("notes"),
		PriceInEUR:         parsePrice(cell("price_in_eur")),
	}
}

// parsePrice strips everything except digits, dot and minus before
// parsing, so "$120.50" and "€110" both resolve. Unparseable input
// yields 0.
func parsePrice(raw string) float64 {
	cleaned := strings.Map(func(c rune) rune {
		switch {
		case c >= '0' && c <= '9', c == '.', c == '-':
			return c
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "01/02/2006", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}
