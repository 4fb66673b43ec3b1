package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
)

func newExportService(states UserStateManager, rows ...models.CertificationRow) *ExportService {
	catalogSvc, _, _ := newCatalogService(nil, rows...)
	return NewExportService(catalogSvc, states, nil, nil, nil)
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCatalogExportCSV(t *testing.T) {
	svc := newExportService(nil, catalogRow("c1", "AWS SAA"), catalogRow("c2", "Terraform Associate"))

	file, err := svc.Catalog(context.Background(), "", models.CertificationFilter{}, ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "certifications-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	records := parseCSV(t, file.Data)
	require.Len(t, records, 3)
	assert.Equal(t, "Name", records[0][0])
	names := []string{records[1][0], records[2][0]}
	assert.ElementsMatch(t, []string{"AWS SAA", "Terraform Associate"}, names)
}

func TestCatalogExportAppliesFilter(t *testing.T) {
	svc := newExportService(nil, catalogRow("c1", "AWS SAA"), catalogRow("c2", "Terraform Associate"))

	file, err := svc.Catalog(context.Background(), "", models.CertificationFilter{Search: "terraform"}, ExportCSV)
	require.NoError(t, err)

	records := parseCSV(t, file.Data)
	require.Len(t, records, 2)
	assert.Equal(t, "Terraform Associate", records[1][0])
}

func TestCatalogExportPDF(t *testing.T) {
	svc := newExportService(nil, catalogRow("c1", "AWS SAA"))

	file, err := svc.Catalog(context.Background(), "", models.CertificationFilter{}, ExportPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestCompletionsExportCSV(t *testing.T) {
	states, _ := newFileStateService(catalogRow("c1", "AWS SAA"))
	_, err := states.CompleteCatalog(context.Background(), "u1", dto.CompleteCatalogRequest{CertificationID: "c1"})
	require.NoError(t, err)

	svc := newExportService(states)
	file, err := svc.Completions(context.Background(), "u1", ExportCSV)
	require.NoError(t, err)

	records := parseCSV(t, file.Data)
	require.Len(t, records, 2)
	assert.Equal(t, "Name", records[0][0])
	assert.Equal(t, "AWS SAA", records[1][0])
	assert.Equal(t, "false", records[1][5])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(nil, catalogRow("c1", "AWS SAA"))

	_, err := svc.Catalog(context.Background(), "", models.CertificationFilter{}, ExportFormat("xlsx"))
	require.Error(t, err)
}
