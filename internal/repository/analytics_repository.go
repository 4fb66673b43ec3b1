package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/certtrack/certtrack-api/internal/models"
)

// AnalyticsRepository aggregates counts for the admin dashboard.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new repository instance.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Stats collects the aggregate snapshot in one pass of simple count
// queries. The numbers are approximate in the sense that they are not
// taken inside a single transaction.
func (r *AnalyticsRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.TotalUsers, `SELECT COUNT(*) FROM users WHERE active = TRUE`},
		{&stats.TotalCertifications, `SELECT COUNT(*) FROM certifications`},
		{&stats.CompletedCount, `SELECT COUNT(*) FROM user_certifications WHERE status = 'completed'`},
		{&stats.PendingApplications, `SELECT COUNT(*) FROM funding_applications WHERE status = 'pending'`},
		{&stats.PendingSuggestions, `SELECT COUNT(*) FROM certification_suggestions WHERE status = 'pending'`},
		{&stats.ApprovedSuggestions, `SELECT COUNT(*) FROM certification_suggestions WHERE status = 'approved'`},
		{&stats.RejectedSuggestions, `SELECT COUNT(*) FROM certification_suggestions WHERE status = 'rejected'`},
		{&stats.ExternalCompletions, `SELECT COUNT(*) FROM external_certifications`},
		{&stats.FavoriteMarkersTotal, `SELECT COUNT(*) FROM user_certifications WHERE status = 'saved'`},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query); err != nil {
			return nil, fmt.Errorf("admin stats: %w", err)
		}
	}
	return stats, nil
}

// CompletionsByUser rolls completions up per user, catalog-backed and
// external combined, highest count first.
func (r *AnalyticsRepository) CompletionsByUser(ctx context.Context) ([]models.UserCompletionSummary, error) {
	const query = `SELECT u.id AS user_id, u.email AS user_email, COUNT(*) AS completed_count FROM (SELECT user_id FROM user_certifications WHERE status = 'completed' UNION ALL SELECT user_id FROM external_certifications) c JOIN users u ON u.id = c.user_id GROUP BY u.id, u.email ORDER BY completed_count DESC, u.email ASC`
	var out []models.UserCompletionSummary
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("completions by user: %w", err)
	}
	return out, nil
}
