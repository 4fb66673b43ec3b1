package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/certtrack/certtrack-api/internal/models"
)

// SuggestionRepository persists user-submitted catalog suggestions.
type SuggestionRepository struct {
	db *sqlx.DB
}

// NewSuggestionRepository creates a new repository instance.
func NewSuggestionRepository(db *sqlx.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Create inserts a suggestion in pending state.
func (r *SuggestionRepository) Create(ctx context.Context, s *models.CertificationSuggestion) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.SuggestionPending
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	const query = `INSERT INTO certification_suggestions (id, user_id, certification_name, provider, reason, url, status, admin_notes, created_at, updated_at) VALUES (:id, :user_id, :certification_name, :provider, :reason, :url, :status, :admin_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create suggestion: %w", err)
	}
	return nil
}

// ListByUser returns the user's suggestions, most recent first.
func (r *SuggestionRepository) ListByUser(ctx context.Context, userID string) ([]models.CertificationSuggestion, error) {
	const query = `SELECT id, user_id, certification_name, provider, reason, url, status, admin_notes, created_at, updated_at FROM certification_suggestions WHERE user_id = $1 ORDER BY created_at DESC`
	var out []models.CertificationSuggestion
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list suggestions by user: %w", err)
	}
	return out, nil
}

// ListByStatus returns suggestions in the given state with the submitter's
// email joined in, oldest first.
func (r *SuggestionRepository) ListByStatus(ctx context.Context, status models.SuggestionStatus) ([]models.CertificationSuggestion, error) {
	const query = `SELECT s.id, s.user_id, s.certification_name, s.provider, s.reason, s.url, s.status, s.admin_notes, s.created_at, s.updated_at, u.email AS user_email FROM certification_suggestions s JOIN users u ON u.id = s.user_id WHERE s.status = $1 ORDER BY s.created_at ASC`
	var out []models.CertificationSuggestion
	if err := r.db.SelectContext(ctx, &out, query, status); err != nil {
		return nil, fmt.Errorf("list suggestions by status: %w", err)
	}
	return out, nil
}

// FindByID returns a suggestion by id.
func (r *SuggestionRepository) FindByID(ctx context.Context, id string) (*models.CertificationSuggestion, error) {
	const query = `SELECT id, user_id, certification_name, provider, reason, url, status, admin_notes, created_at, updated_at FROM certification_suggestions WHERE id = $1 LIMIT 1`
	var s models.CertificationSuggestion
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find suggestion: %w", err)
	}
	return &s, nil
}

// UpdateStatus moves a suggestion into a new review state, optionally
// recording reviewer notes.
func (r *SuggestionRepository) UpdateStatus(ctx context.Context, id string, status models.SuggestionStatus, adminNotes *string) error {
	const query = `UPDATE certification_suggestions SET status = $2, admin_notes = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, adminNotes, time.Now().UTC()); err != nil {
		return fmt.Errorf("update suggestion status: %w", err)
	}
	return nil
}
