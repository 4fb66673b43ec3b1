package dto

import "github.com/certtrack/certtrack-api/internal/models"

// CatalogItem is one catalog row annotated with the requesting user's state.
type CatalogItem struct {
	models.Certification
	IsFavorite        bool                     `json:"is_favorite"`
	HasApplied        bool                     `json:"has_applied"`
	ApplicationStatus models.ApplicationStatus `json:"application_status,omitempty"`
	IsCompleted       bool                     `json:"is_completed"`
}

// CatalogPage is the catalog listing payload: one page of annotated rows
// plus the applied sort and the pagination window.
type CatalogPage struct {
	Items         []CatalogItem        `json:"items"`
	SortKey       string               `json:"sort_key,omitempty"`
	SortDirection string               `json:"sort_direction,omitempty"`
	PageWindow    []int                `json:"page_window"`
	FilterOptions models.FilterOptions `json:"filter_options"`
}
