package dto

import "github.com/certtrack/certtrack-api/internal/models"

// SyncRequest triggers a spreadsheet import. SpreadsheetID and Tab fall
// back to the stored admin settings when omitted.
type SyncRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Tab           string `json:"tab"`
	AccessToken   string `json:"access_token" validate:"required"`
}

// ImportResult summarises one import run.
type ImportResult struct {
	ImportedCount int      `json:"imported_count"`
	CreatedCount  int      `json:"created_count"`
	UpdatedCount  int      `json:"updated_count"`
	SkippedCount  int      `json:"skipped_count"`
	RowErrors     []string `json:"row_errors,omitempty"`
}

// SettingRequest writes one admin setting.
type SettingRequest struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"max=2000"`
}

// AdminDashboard is the aggregate admin payload.
type AdminDashboard struct {
	Stats       models.AdminStats              `json:"stats"`
	Completions []models.UserCompletionSummary `json:"completions_by_user"`
	Metrics     models.SystemMetrics           `json:"system_metrics"`
}
