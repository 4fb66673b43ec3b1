package models

import "time"

// AdminStats is the aggregate snapshot shown on the admin dashboard.
type AdminStats struct {
	TotalUsers           int `json:"total_users"`
	TotalCertifications  int `json:"total_certifications"`
	CompletedCount       int `json:"completed_count"`
	PendingApplications  int `json:"pending_applications"`
	PendingSuggestions   int `json:"pending_suggestions"`
	ApprovedSuggestions  int `json:"approved_suggestions"`
	RejectedSuggestions  int `json:"rejected_suggestions"`
	ExternalCompletions  int `json:"external_completions"`
	FavoriteMarkersTotal int `json:"favorite_markers_total"`
}

// SystemMetrics is a lightweight runtime snapshot attached to the admin
// dashboard payload.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// UserCompletionSummary rolls completions up per user for the admin view.
type UserCompletionSummary struct {
	UserID         string `db:"user_id" json:"user_id"`
	UserEmail      string `db:"user_email" json:"user_email"`
	CompletedCount int    `db:"completed_count" json:"completed_count"`
}
