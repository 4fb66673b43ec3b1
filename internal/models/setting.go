package models

import "time"

// AdminSetting is a persisted key-value configuration entry, e.g. the
// spreadsheet id and tab used by the importer.
type AdminSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Well-known admin setting keys.
const (
	SettingSheetID  = "google_sheet_id"
	SettingSheetTab = "google_sheet_tab"
)

// AllowedSettingKeys enumerates the keys the settings endpoint accepts.
var AllowedSettingKeys = map[string]struct{}{
	SettingSheetID:  {},
	SettingSheetTab: {},
}
