package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/certtrack/certtrack-api/internal/models"
)

// SettingRepository persists admin key-value settings.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new repository instance.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns a setting by key.
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.AdminSetting, error) {
	const query = `SELECT key, value, updated_by, updated_at FROM admin_settings WHERE key = $1 LIMIT 1`
	var setting models.AdminSetting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	return &setting, nil
}

// List returns all settings ordered by key.
func (r *SettingRepository) List(ctx context.Context) ([]models.AdminSetting, error) {
	const query = `SELECT key, value, updated_by, updated_at FROM admin_settings ORDER BY key ASC`
	var settings []models.AdminSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Upsert writes a setting, replacing any existing value for the key.
func (r *SettingRepository) Upsert(ctx context.Context, setting *models.AdminSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO admin_settings (key, value, updated_by, updated_at) VALUES (:key, :value, :updated_by, :updated_at) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("upsert setting %s: %w", setting.Key, err)
	}
	return nil
}
