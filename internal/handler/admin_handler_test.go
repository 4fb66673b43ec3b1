package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/middleware"
	"github.com/certtrack/certtrack-api/internal/models"
)

type importerStub struct {
	spreadsheetID string
	tab           string
	token         string
	result        *dto.ImportResult
	err           error
}

func (s *importerStub) ImportFrom(_ context.Context, _, spreadsheetID, tab, token string) (*dto.ImportResult, error) {
	s.spreadsheetID = spreadsheetID
	s.tab = tab
	s.token = token
	if s.result == nil {
		s.result = &dto.ImportResult{}
	}
	return s.result, s.err
}

type analyticsStub struct {
	invalidations int
}

func (s *analyticsStub) Dashboard(_ context.Context) (*dto.AdminDashboard, error) {
	return &dto.AdminDashboard{}, nil
}

func (s *analyticsStub) Invalidate(_ context.Context) {
	s.invalidations++
}

type settingsStub struct {
	values map[string]string
	sets   []dto.SettingRequest
}

func newSettingsStub() *settingsStub {
	return &settingsStub{values: map[string]string{}}
}

func (s *settingsStub) List(_ context.Context) ([]models.AdminSetting, error) {
	return nil, nil
}

func (s *settingsStub) Value(_ context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *settingsStub) Set(_ context.Context, _ string, req dto.SettingRequest) (*models.AdminSetting, error) {
	s.values[req.Key] = req.Value
	s.sets = append(s.sets, req)
	return &models.AdminSetting{Key: req.Key, Value: req.Value}, nil
}

func asAdmin(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin})
}

func TestSyncPersistsSheetSettings(t *testing.T) {
	importer := &importerStub{}
	settings := newSettingsStub()
	analytics := &analyticsStub{}
	h := NewAdminHandler(importer, nil, analytics, settings)

	body, _ := json.Marshal(dto.SyncRequest{SpreadsheetID: "sheet-1", Tab: "Certs", AccessToken: "tok"})
	c, w := testContext(t, http.MethodPost, "/admin/sync", body)
	asAdmin(c)

	h.Sync(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sheet-1", importer.spreadsheetID)
	assert.Equal(t, "Certs", importer.tab)
	assert.Equal(t, "sheet-1", settings.values[models.SettingSheetID])
	assert.Equal(t, "Certs", settings.values[models.SettingSheetTab])
	require.Len(t, settings.sets, 2)
	assert.Equal(t, 1, analytics.invalidations)
}

func TestSyncFallsBackToStoredSettings(t *testing.T) {
	importer := &importerStub{}
	settings := newSettingsStub()
	settings.values[models.SettingSheetID] = "stored-sheet"
	settings.values[models.SettingSheetTab] = "Stored Tab"
	h := NewAdminHandler(importer, nil, &analyticsStub{}, settings)

	body, _ := json.Marshal(dto.SyncRequest{AccessToken: "tok"})
	c, w := testContext(t, http.MethodPost, "/admin/sync", body)
	asAdmin(c)

	h.Sync(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stored-sheet", importer.spreadsheetID)
	assert.Equal(t, "Stored Tab", importer.tab)
}

func TestSyncRequiresAuth(t *testing.T) {
	h := NewAdminHandler(&importerStub{}, nil, &analyticsStub{}, newSettingsStub())

	body, _ := json.Marshal(dto.SyncRequest{AccessToken: "tok"})
	c, w := testContext(t, http.MethodPost, "/admin/sync", body)

	h.Sync(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
