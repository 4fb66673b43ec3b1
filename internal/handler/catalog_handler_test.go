package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
	"github.com/certtrack/certtrack-api/internal/service"
)

type catalogRepoFake struct {
	rows []models.CertificationRow
}

func (f *catalogRepoFake) ListAll(ctx context.Context) ([]models.CertificationRow, error) {
	return f.rows, nil
}

func (f *catalogRepoFake) FindByID(ctx context.Context, id string) (*models.CertificationRow, error) {
	for _, row := range f.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newTestCatalogHandler(rows ...models.CertificationRow) *CatalogHandler {
	svc := service.NewCatalogService(&catalogRepoFake{rows: rows}, nil, nil, service.CatalogConfig{
		DefaultPageSize: 20,
		PageSizes:       []int{10, 20, 50},
	}, nil)
	return NewCatalogHandler(svc)
}

func TestCatalogListEnvelope(t *testing.T) {
	h := newTestCatalogHandler(
		models.CertificationRow{ID: "c1", CertificationName: "AWS Solutions Architect", Domain: "Cloud"},
		models.CertificationRow{ID: "c2", CertificationName: "CKA", Domain: "DevOps"},
	)

	c, w := testContext(t, http.MethodGet, "/certifications", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
		} `json:"data"`
		Pagination *models.Pagination     `json:"pagination"`
		Meta       map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Items, 2)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
	assert.Contains(t, envelope.Meta, "page_sizes")
}

func TestCatalogListSearch(t *testing.T) {
	h := newTestCatalogHandler(
		models.CertificationRow{ID: "c1", CertificationName: "AWS Solutions Architect"},
		models.CertificationRow{ID: "c2", CertificationName: "CKA"},
	)

	c, w := testContext(t, http.MethodGet, "/certifications?search=aws", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestCatalogListUnknownPageSizeFallsBack(t *testing.T) {
	h := newTestCatalogHandler(models.CertificationRow{ID: "c1", CertificationName: "AWS SAA"})

	c, w := testContext(t, http.MethodGet, "/certifications?page_size=7", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 20, envelope.Pagination.PageSize)
}

func TestCatalogGetNotFound(t *testing.T) {
	h := newTestCatalogHandler(models.CertificationRow{ID: "c1", CertificationName: "AWS SAA"})

	c, w := testContext(t, http.MethodGet, "/certifications/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
