package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type catalogRepoStub struct {
	rows      []models.CertificationRow
	listCalls int
}

func (s *catalogRepoStub) ListAll(ctx context.Context) ([]models.CertificationRow, error) {
	s.listCalls++
	return s.rows, nil
}

func (s *catalogRepoStub) FindByID(ctx context.Context, id string) (*models.CertificationRow, error) {
	for _, row := range s.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

type stateProviderStub struct {
	state models.UserState
}

func (s *stateProviderStub) State(ctx context.Context, userID string) (models.UserState, error) {
	return s.state, nil
}

type cacheRepoStub struct {
	entries map[string][]byte
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{entries: map[string][]byte{}}
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.entries = map[string][]byte{}
	return nil
}

func newCatalogService(states userStateProvider, rows ...models.CertificationRow) (*CatalogService, *catalogRepoStub, *cacheRepoStub) {
	repo := &catalogRepoStub{rows: rows}
	cacheRepo := newCacheRepoStub()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewCatalogService(repo, states, cache, CatalogConfig{DefaultPageSize: 20, PageSizes: []int{10, 20, 50}}, nil)
	return svc, repo, cacheRepo
}

func catalogRow(id, name string) models.CertificationRow {
	return models.CertificationRow{
		ID:                 id,
		CertificationName:  name,
		Domain:             "Cloud",
		Provider:           "AWS",
		CertificateQuality: "4",
		ExperienceLevel:    "advanced",
	}
}

func TestListCachesCatalog(t *testing.T) {
	svc, repo, _ := newCatalogService(nil, catalogRow("c1", "AWS SAA"), catalogRow("c2", "AWS DVA"))
	ctx := context.Background()

	_, _, err := svc.List(ctx, "", models.CertificationFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(ctx, "", models.CertificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	svc.InvalidateCache(ctx)
	_, _, err = svc.List(ctx, "", models.CertificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestListAnnotatesUserState(t *testing.T) {
	now := time.Now().UTC()
	states := &stateProviderStub{state: models.UserState{
		Favorites: []string{"c1"},
		Applications: []models.FundingApplication{
			{ID: "a1", CertificationID: "c2", Status: models.ApplicationApproved, CreatedAt: now},
		},
		Completed: []models.CompletedCertification{
			{ID: "x1", CertificationID: "c1", CompletedAt: now},
		},
	}}
	svc, _, _ := newCatalogService(states, catalogRow("c1", "AWS SAA"), catalogRow("c2", "AWS DVA"))

	page, pagination, err := svc.List(context.Background(), "u1", models.CertificationFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, pagination.TotalCount)

	byID := map[string]int{}
	for i, item := range page.Items {
		byID[item.ID] = i
	}
	first := page.Items[byID["c1"]]
	assert.True(t, first.IsFavorite)
	assert.True(t, first.IsCompleted)
	assert.False(t, first.HasApplied)

	second := page.Items[byID["c2"]]
	assert.False(t, second.IsFavorite)
	assert.True(t, second.HasApplied)
	assert.Equal(t, models.ApplicationApproved, second.ApplicationStatus)
}

func TestListRejectsUnknownPageSize(t *testing.T) {
	rows := make([]models.CertificationRow, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, catalogRow(string(rune('a'+i)), "Cert"))
	}
	svc, _, _ := newCatalogService(nil, rows...)

	_, pagination, err := svc.List(context.Background(), "", models.CertificationFilter{PageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 2, pagination.TotalPages)

	_, pagination, err = svc.List(context.Background(), "", models.CertificationFilter{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestListClampsPage(t *testing.T) {
	svc, _, _ := newCatalogService(nil, catalogRow("c1", "AWS SAA"))
	_, pagination, err := svc.List(context.Background(), "", models.CertificationFilter{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _, _ := newCatalogService(nil, catalogRow("c1", "AWS SAA"))

	cert, err := svc.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "AWS SAA", cert.CertificationName)

	_, err = svc.GetByID(context.Background(), "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestFilterOptionsFromCatalog(t *testing.T) {
	a := catalogRow("c1", "AWS SAA")
	b := catalogRow("c2", "CKA")
	b.Domain = "DevOps"
	b.Provider = "CNCF"
	svc, _, _ := newCatalogService(nil, a, b)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cloud", "DevOps"}, opts.Domains)
	assert.Contains(t, opts.Providers, "AWS")
	assert.Contains(t, opts.Providers, "CNCF")
}
