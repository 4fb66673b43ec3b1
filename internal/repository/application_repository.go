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

// ApplicationRepository persists funding applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new repository instance.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new funding application in pending state.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.FundingApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
	const query = `INSERT INTO funding_applications (id, user_id, certification_id, certification_name, status, reason, estimated_cost, created_at, updated_at) VALUES (:id, :user_id, :certification_id, :certification_name, :status, :reason, :estimated_cost, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("create funding application: %w", err)
	}
	return nil
}

// ListByUser returns the user's applications, most recent first.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]models.FundingApplication, error) {
	const query = `SELECT id, user_id, certification_id, certification_name, status, reason, estimated_cost, created_at, updated_at FROM funding_applications WHERE user_id = $1 ORDER BY created_at DESC`
	var apps []models.FundingApplication
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("list funding applications: %w", err)
	}
	return apps, nil
}

// ListByStatus returns applications in the given state with the owner's
// email joined in, oldest first so the review queue is FIFO.
func (r *ApplicationRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.AdminApplication, error) {
	const query = `SELECT fa.id, fa.user_id, fa.certification_id, fa.certification_name, fa.status, fa.reason, fa.estimated_cost, fa.created_at, fa.updated_at, u.email AS user_email FROM funding_applications fa JOIN users u ON u.id = fa.user_id WHERE fa.status = $1 ORDER BY fa.created_at ASC`
	var apps []models.AdminApplication
	if err := r.db.SelectContext(ctx, &apps, query, status); err != nil {
		return nil, fmt.Errorf("list applications by status: %w", err)
	}
	return apps, nil
}

// FindByID returns an application by id.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.FundingApplication, error) {
	const query = `SELECT id, user_id, certification_id, certification_name, status, reason, estimated_cost, created_at, updated_at FROM funding_applications WHERE id = $1 LIMIT 1`
	var app models.FundingApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find funding application: %w", err)
	}
	return &app, nil
}

// HasPending reports whether the user already has a pending application
// for the certification.
func (r *ApplicationRepository) HasPending(ctx context.Context, userID, certID string) (bool, error) {
	const query = `SELECT 1 FROM funding_applications WHERE user_id = $1 AND certification_id = $2 AND status = 'pending' LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, userID, certID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check pending application: %w", err)
	}
	return true, nil
}

// UpdateStatus moves an application into a new lifecycle state.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE funding_applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}
