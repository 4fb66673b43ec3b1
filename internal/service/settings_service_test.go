package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type settingRepoStub struct {
	settings map[string]models.AdminSetting
}

func (r *settingRepoStub) Get(_ context.Context, key string) (*models.AdminSetting, error) {
	s, ok := r.settings[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r *settingRepoStub) List(_ context.Context) ([]models.AdminSetting, error) {
	out := make([]models.AdminSetting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, s)
	}
	return out, nil
}

func (r *settingRepoStub) Upsert(_ context.Context, setting *models.AdminSetting) error {
	r.settings[setting.Key] = *setting
	return nil
}

func newSettingsService() (*SettingsService, *settingRepoStub) {
	repo := &settingRepoStub{settings: map[string]models.AdminSetting{}}
	return NewSettingsService(repo, nil, nil), repo
}

func TestSetStoresAllowedKey(t *testing.T) {
	svc, repo := newSettingsService()

	setting, err := svc.Set(context.Background(), "admin-1", dto.SettingRequest{
		Key:   models.SettingSheetID,
		Value: "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
	})
	require.NoError(t, err)
	require.NotNil(t, setting.UpdatedBy)
	assert.Equal(t, "admin-1", *setting.UpdatedBy)

	value, err := svc.Value(context.Background(), models.SettingSheetID)
	require.NoError(t, err)
	assert.Equal(t, "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", value)
	assert.Len(t, repo.settings, 1)
}

func TestSetRejectsUnknownKey(t *testing.T) {
	svc, repo := newSettingsService()

	_, err := svc.Set(context.Background(), "admin-1", dto.SettingRequest{Key: "smtp_password", Value: "x"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.settings)
}

func TestValueForUnsetKeyIsEmpty(t *testing.T) {
	svc, _ := newSettingsService()

	value, err := svc.Value(context.Background(), models.SettingSheetTab)
	require.NoError(t, err)
	assert.Equal(t, "", value)
}
