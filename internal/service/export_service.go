package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
	"github.com/certtrack/certtrack-api/pkg/export"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders catalog and completion listings as CSV or PDF
// downloads.
type ExportService struct {
	catalog *CatalogService
	states  UserStateManager
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(catalog *CatalogService, states UserStateManager, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{catalog: catalog, states: states, csv: csv, pdf: pdf, logger: logger}
}

// Catalog renders the filtered catalog. Pagination is ignored so the
// export always covers the whole filtered set.
func (s *ExportService) Catalog(ctx context.Context, userID string, filter models.CertificationFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var isFavorite func(string) bool
	if userID != "" && s.states != nil {
		state, err := s.states.State(ctx, userID)
		if err != nil {
			return nil, err
		}
		isFavorite = state.IsFavorite
	}
	filtered := FilterCertifications(rows, filter, isFavorite)
	sorted := SortCertifications(filtered, filter.SortKey, filter.SortDirection)

	dataset := export.Dataset{
		Headers: []string{"Name", "Domain", "Languages", "Provider", "Price", "Currency", "Price EUR", "Level", "Quality", "Last Checked", "URL"},
	}
	for _, c := range sorted {
		dataset.Rows = append(dataset.Rows, []string{
			c.CertificationName,
			c.Domain,
			strings.Join(c.LanguageFramework, ", "),
			strings.Join(c.Provider, ", "),
			formatAmount(c.Price),
			c.Currency,
			formatAmount(c.PriceInEUR),
			c.ExperienceLevel,
			c.CertificateQuality,
			c.LastChecked.Format("2006-01-02"),
			c.URL,
		})
	}
	return s.render(dataset, "Certification Catalog", "certifications", format)
}

// Completions renders the user's completed certifications.
func (s *ExportService) Completions(ctx context.Context, userID string, format ExportFormat) (*ExportFile, error) {
	completed, err := s.states.ListCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Name", "Provider", "Completed", "Expires", "Credential URL", "External"},
	}
	for _, c := range completed {
		expires := ""
		if c.ExpiresAt != nil {
			expires = c.ExpiresAt.Format("2006-01-02")
		}
		credential := ""
		if c.CredentialURL != nil {
			credential = *c.CredentialURL
		}
		dataset.Rows = append(dataset.Rows, []string{
			c.CertificationName,
			c.Provider,
			c.CompletedAt.Format("2006-01-02"),
			expires,
			credential,
			strconv.FormatBool(c.IsExternal),
		})
	}
	return s.render(dataset, "Completed Certifications", "completed-certifications", format)
}

func (s *ExportService) render(dataset export.Dataset, title, stem string, format ExportFormat) (*ExportFile, error) {
	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.csv", stem, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.pdf", stem, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
