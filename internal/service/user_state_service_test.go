package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type catalogLookupStub struct {
	rows map[string]models.CertificationRow
}

func (s *catalogLookupStub) FindByID(ctx context.Context, id string) (*models.CertificationRow, error) {
	if row, ok := s.rows[id]; ok {
		return &row, nil
	}
	return nil, sql.ErrNoRows
}

type memoryStateStore struct {
	states map[string]models.UserState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]models.UserState{}}
}

func (s *memoryStateStore) Load(userID string) (models.UserState, error) {
	if state, ok := s.states[userID]; ok {
		return state, nil
	}
	return models.UserState{
		Favorites:    []string{},
		Applications: []models.FundingApplication{},
		Completed:    []models.CompletedCertification{},
	}, nil
}

func (s *memoryStateStore) Mutate(userID string, fn func(*models.UserState) (bool, error)) error {
	state, _ := s.Load(userID)
	changed, err := fn(&state)
	if err != nil {
		return err
	}
	if changed {
		s.states[userID] = state
	}
	return nil
}

func newFileStateService(certs ...models.CertificationRow) (*FileUserStateService, *memoryStateStore) {
	lookup := &catalogLookupStub{rows: map[string]models.CertificationRow{}}
	for _, c := range certs {
		lookup.rows[c.ID] = c
	}
	store := newMemoryStateStore()
	return NewFileUserStateService(store, lookup, nil, nil), store
}

func TestFavoriteToggleIsItsOwnInverse(t *testing.T) {
	svc, _ := newFileStateService(models.CertificationRow{ID: "c1", CertificationName: "AWS SAA"})
	ctx := context.Background()

	state, err := svc.State(ctx, "u1")
	require.NoError(t, err)
	require.False(t, state.IsFavorite("c1"))

	require.NoError(t, svc.AddFavorite(ctx, "u1", "c1"))
	state, err = svc.State(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, state.IsFavorite("c1"))

	require.NoError(t, svc.RemoveFavorite(ctx, "u1", "c1"))
	state, err = svc.State(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, state.IsFavorite("c1"))
}

func TestAddFavoriteUnknownCertification(t *testing.T) {
	svc, _ := newFileStateService()
	err := svc.AddFavorite(context.Background(), "u1", "missing")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

type failingCatalogLookup struct {
	err error
}

func (s failingCatalogLookup) FindByID(ctx context.Context, id string) (*models.CertificationRow, error) {
	return nil, s.err
}

func TestAddFavoriteCatalogLookupFailureIsInternal(t *testing.T) {
	svc := NewFileUserStateService(newMemoryStateStore(), failingCatalogLookup{err: errors.New("connection reset")}, nil, nil)
	err := svc.AddFavorite(context.Background(), "u1", "c1")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestApplicationStatusMostRecentWins(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	state := models.UserState{
		Applications: []models.FundingApplication{
			{ID: "a1", CertificationID: "c1", Status: models.ApplicationApproved, CreatedAt: t1},
			{ID: "a2", CertificationID: "c1", Status: models.ApplicationRejected, CreatedAt: t2},
		},
	}
	assert.Equal(t, models.ApplicationRejected, state.ApplicationStatus("c1"))
	assert.Equal(t, models.ApplicationStatus(""), state.ApplicationStatus("c2"))
}

func TestApplyRejectsDuplicatePending(t *testing.T) {
	svc, _ := newFileStateService(models.CertificationRow{ID: "c1", CertificationName: "AWS SAA"})
	ctx := context.Background()
	req := dto.ApplyRequest{CertificationID: "c1", Reason: "career growth", EstimatedCost: 150}

	app, err := svc.Apply(ctx, "u1", req)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, "AWS SAA", app.CertificationName)

	_, err = svc.Apply(ctx, "u1", req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCompleteCatalogRejectsDuplicates(t *testing.T) {
	svc, _ := newFileStateService(models.CertificationRow{ID: "c1", CertificationName: "AWS SAA", Provider: "AWS"})
	ctx := context.Background()
	req := dto.CompleteCatalogRequest{CertificationID: "c1"}

	entry, err := svc.CompleteCatalog(ctx, "u1", req)
	require.NoError(t, err)
	assert.False(t, entry.IsExternal)
	assert.Equal(t, "AWS SAA", entry.CertificationName)

	_, err = svc.CompleteCatalog(ctx, "u1", req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCompleteExternalAndDelete(t *testing.T) {
	svc, _ := newFileStateService()
	ctx := context.Background()

	entry, err := svc.CompleteExternal(ctx, "u1", dto.CompleteExternalRequest{
		CertificationName: "Scrum Master",
		Provider:          "Scrum.org",
	})
	require.NoError(t, err)
	assert.True(t, entry.IsExternal)

	list, err := svc.ListCompleted(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.DeleteCompleted(ctx, "u1", entry.ID, true))
	list, err = svc.ListCompleted(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.DeleteCompleted(ctx, "u1", entry.ID, true)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestListCompletedMostRecentFirst(t *testing.T) {
	svc, _ := newFileStateService()
	ctx := context.Background()

	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CompleteExternal(ctx, "u1", dto.CompleteExternalRequest{CertificationName: "Old", Provider: "P", CompletedAt: &older})
	require.NoError(t, err)
	_, err = svc.CompleteExternal(ctx, "u1", dto.CompleteExternalRequest{CertificationName: "New", Provider: "P", CompletedAt: &newer})
	require.NoError(t, err)

	list, err := svc.ListCompleted(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "New", list[0].CertificationName)
	assert.Equal(t, "Old", list[1].CertificationName)
}
