package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

type settingRepository interface {
	Get(ctx context.Context, key string) (*models.AdminSetting, error)
	List(ctx context.Context) ([]models.AdminSetting, error)
	Upsert(ctx context.Context, setting *models.AdminSetting) error
}

// SettingsService manages admin key-value settings such as the
// spreadsheet id and tab used by the importer.
type SettingsService struct {
	repo      settingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService instance.
func NewSettingsService(repo settingRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger}
}

// List returns all admin settings.
func (s *SettingsService) List(ctx context.Context) ([]models.AdminSetting, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settings")
	}
	return settings, nil
}

// Value returns the stored value for a key, or "" when unset.
func (s *SettingsService) Value(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load setting")
	}
	return setting.Value, nil
}

// Set writes one setting, recording the admin who changed it.
func (s *SettingsService) Set(ctx context.Context, adminID string, req dto.SettingRequest) (*models.AdminSetting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid setting payload")
	}
	if _, ok := models.AllowedSettingKeys[req.Key]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown setting key")
	}
	setting := &models.AdminSetting{
		Key:       req.Key,
		Value:     req.Value,
		UpdatedBy: &adminID,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store setting")
	}
	return setting, nil
}
