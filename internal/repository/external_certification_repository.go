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

// ExternalCertificationRepository persists self-reported completions that
// have no catalog backing row.
type ExternalCertificationRepository struct {
	db *sqlx.DB
}

// NewExternalCertificationRepository creates a new repository instance.
func NewExternalCertificationRepository(db *sqlx.DB) *ExternalCertificationRepository {
	return &ExternalCertificationRepository{db: db}
}

// Create inserts an external completion record.
func (r *ExternalCertificationRepository) Create(ctx context.Context, entry *models.ExternalCertification) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO external_certifications (id, user_id, certification_name, provider, completed_at, credential_url, expires_at, proof_file, created_at) VALUES (:id, :user_id, :certification_name, :provider, :completed_at, :credential_url, :expires_at, :proof_file, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create external certification: %w", err)
	}
	return nil
}

// ListByUser returns the user's external completions, most recent first.
func (r *ExternalCertificationRepository) ListByUser(ctx context.Context, userID string) ([]models.ExternalCertification, error) {
	const query = `SELECT id, user_id, certification_name, provider, completed_at, credential_url, expires_at, proof_file, created_at FROM external_certifications WHERE user_id = $1 ORDER BY completed_at DESC`
	var entries []models.ExternalCertification
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list external certifications: %w", err)
	}
	return entries, nil
}

// FindByID returns one external completion owned by the user.
func (r *ExternalCertificationRepository) FindByID(ctx context.Context, userID, id string) (*models.ExternalCertification, error) {
	const query = `SELECT id, user_id, certification_name, provider, completed_at, credential_url, expires_at, proof_file, created_at FROM external_certifications WHERE id = $1 AND user_id = $2 LIMIT 1`
	var entry models.ExternalCertification
	if err := r.db.GetContext(ctx, &entry, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find external certification: %w", err)
	}
	return &entry, nil
}

// Delete removes an external completion owned by the user.
func (r *ExternalCertificationRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM external_certifications WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("delete external certification: %w", err)
	}
	return nil
}

// SetProofFile attaches or clears the stored proof path.
func (r *ExternalCertificationRepository) SetProofFile(ctx context.Context, userID, id string, proofFile *string) error {
	const query = `UPDATE external_certifications SET proof_file = $3 WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID, proofFile); err != nil {
		return fmt.Errorf("set external proof file: %w", err)
	}
	return nil
}
