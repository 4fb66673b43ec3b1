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

// UserCertificationRepository persists per-user catalog links: favorite
// markers ("saved" rows) and catalog-backed completions ("completed" rows).
type UserCertificationRepository struct {
	db *sqlx.DB
}

// NewUserCertificationRepository creates a new repository instance.
func NewUserCertificationRepository(db *sqlx.DB) *UserCertificationRepository {
	return &UserCertificationRepository{db: db}
}

// ListFavoriteIDs returns the certification ids the user marked as favorite.
func (r *UserCertificationRepository) ListFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT certification_id FROM user_certifications WHERE user_id = $1 AND status = 'saved' ORDER BY created_at ASC`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	return ids, nil
}

// IsFavorite reports whether the user has a saved row for the certification.
func (r *UserCertificationRepository) IsFavorite(ctx context.Context, userID, certID string) (bool, error) {
	const query = `SELECT 1 FROM user_certifications WHERE user_id = $1 AND certification_id = $2 AND status = 'saved' LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, userID, certID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

// AddFavorite inserts a saved row for the (user, certification) pair.
func (r *UserCertificationRepository) AddFavorite(ctx context.Context, userID, certID string) error {
	entry := models.UserCertification{
		ID:              uuid.NewString(),
		UserID:          userID,
		CertificationID: certID,
		Status:          models.UserCertificationSaved,
		CreatedAt:       time.Now().UTC(),
	}
	entry.UpdatedAt = entry.CreatedAt
	const query = `INSERT INTO user_certifications (id, user_id, certification_id, status, created_at, updated_at) VALUES (:id, :user_id, :certification_id, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes the saved row for the (user, certification) pair.
func (r *UserCertificationRepository) RemoveFavorite(ctx context.Context, userID, certID string) error {
	const query = `DELETE FROM user_certifications WHERE user_id = $1 AND certification_id = $2 AND status = 'saved'`
	if _, err := r.db.ExecContext(ctx, query, userID, certID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// CreateCompleted records a catalog-backed completion.
func (r *UserCertificationRepository) CreateCompleted(ctx context.Context, entry *models.UserCertification) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Status = models.UserCertificationCompleted
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	const query = `INSERT INTO user_certifications (id, user_id, certification_id, status, completed_at, credential_url, expires_at, proof_file, created_at, updated_at) VALUES (:id, :user_id, :certification_id, :status, :completed_at, :credential_url, :expires_at, :proof_file, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create completed certification: %w", err)
	}
	return nil
}

// ListCompleted returns the user's catalog-backed completions with the
// catalog name and provider joined in.
func (r *UserCertificationRepository) ListCompleted(ctx context.Context, userID string) ([]models.UserCertification, error) {
	const query = `SELECT uc.id, uc.user_id, uc.certification_id, uc.status, uc.completed_at, uc.credential_url, uc.expires_at, uc.proof_file, uc.created_at, uc.updated_at, c.certification_name, c.provider FROM user_certifications uc JOIN certifications c ON c.id = uc.certification_id WHERE uc.user_id = $1 AND uc.status = 'completed' ORDER BY uc.completed_at DESC`
	var entries []models.UserCertification
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list completed certifications: %w", err)
	}
	return entries, nil
}

// FindCompleted returns one completed row owned by the user.
func (r *UserCertificationRepository) FindCompleted(ctx context.Context, userID, id string) (*models.UserCertification, error) {
	const query = `SELECT id, user_id, certification_id, status, completed_at, credential_url, expires_at, proof_file, created_at, updated_at FROM user_certifications WHERE id = $1 AND user_id = $2 AND status = 'completed' LIMIT 1`
	var entry models.UserCertification
	if err := r.db.GetContext(ctx, &entry, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find completed certification: %w", err)
	}
	return &entry, nil
}

// HasCompleted reports whether the user already completed the certification.
func (r *UserCertificationRepository) HasCompleted(ctx context.Context, userID, certID string) (bool, error) {
	const query = `SELECT 1 FROM user_certifications WHERE user_id = $1 AND certification_id = $2 AND status = 'completed' LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, userID, certID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check completed: %w", err)
	}
	return true, nil
}

// DeleteCompleted removes a completed row owned by the user.
func (r *UserCertificationRepository) DeleteCompleted(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM user_certifications WHERE id = $1 AND user_id = $2 AND status = 'completed'`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("delete completed certification: %w", err)
	}
	return nil
}

// SetProofFile attaches or clears the stored proof path for a completion.
func (r *UserCertificationRepository) SetProofFile(ctx context.Context, userID, id string, proofFile *string) error {
	const query = `UPDATE user_certifications SET proof_file = $3, updated_at = $4 WHERE id = $1 AND user_id = $2 AND status = 'completed'`
	if _, err := r.db.ExecContext(ctx, query, id, userID, proofFile, time.Now().UTC()); err != nil {
		return fmt.Errorf("set proof file: %w", err)
	}
	return nil
}
