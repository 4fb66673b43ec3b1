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

const certificationColumns = "id, certification_name, domain, language_framework, url, provider, price, currency, experience_level, certificate_quality, last_checked, notes, price_in_eur"

// CertificationRepository handles persistence for the certification catalog.
type CertificationRepository struct {
	db *sqlx.DB
}

// NewCertificationRepository creates a new repository instance.
func NewCertificationRepository(db *sqlx.DB) *CertificationRepository {
	return &CertificationRepository{db: db}
}

// ListAll returns every catalog row. Filtering, sorting and pagination
// happen in memory so the full set is always loaded.
func (r *CertificationRepository) ListAll(ctx context.Context) ([]models.CertificationRow, error) {
	query := fmt.Sprintf("SELECT %s FROM certifications ORDER BY certification_name ASC", certificationColumns)
	var rows []models.CertificationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list certifications: %w", err)
	}
	return rows, nil
}

// FindByID returns a catalog row by id.
func (r *CertificationRepository) FindByID(ctx context.Context, id string) (*models.CertificationRow, error) {
	query := fmt.Sprintf("SELECT %s FROM certifications WHERE id = $1 LIMIT 1", certificationColumns)
	var row models.CertificationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certification by id: %w", err)
	}
	return &row, nil
}

// FindByName returns a catalog row by exact name match.
func (r *CertificationRepository) FindByName(ctx context.Context, name string) (*models.CertificationRow, error) {
	query := fmt.Sprintf("SELECT %s FROM certifications WHERE certification_name = $1 LIMIT 1", certificationColumns)
	var row models.CertificationRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find certification by name: %w", err)
	}
	return &row, nil
}

// Create inserts a new catalog row.
func (r *CertificationRepository) Create(ctx context.Context, row *models.CertificationRow) error {
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.LastChecked.IsZero() {
		row.LastChecked = time.Now().UTC()
	}
	const query = `INSERT INTO certifications (id, certification_name, domain, language_framework, url, provider, price, currency, experience_level, certificate_quality, last_checked, notes, price_in_eur) VALUES (:id, :certification_name, :domain, :language_framework, :url, :provider, :price, :currency, :experience_level, :certificate_quality, :last_checked, :notes, :price_in_eur)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create certification: %w", err)
	}
	return nil
}

// Update replaces all mutable columns of an existing catalog row.
func (r *CertificationRepository) Update(ctx context.Context, row *models.CertificationRow) error {
	const query = `UPDATE certifications SET certification_name = :certification_name, domain = :domain, language_framework = :language_framework, url = :url, provider = :provider, price = :price, currency = :currency, experience_level = :experience_level, certificate_quality = :certificate_quality, last_checked = :last_checked, notes = :notes, price_in_eur = :price_in_eur WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update certification: %w", err)
	}
	return nil
}

// Upsert inserts the row or, when a row with the same name exists,
// overwrites it in place. The import pipeline keys rows by exact name.
func (r *CertificationRepository) Upsert(ctx context.Context, row *models.CertificationRow) (created bool, err error) {
	existing, err := r.FindByName(ctx, row.CertificationName)
	if err != nil {
		if err != sql.ErrNoRows {
			return false, err
		}
		if err := r.Create(ctx, row); err != nil {
			return false, err
		}
		return true, nil
	}

	row.ID = existing.ID
	if err := r.Update(ctx, row); err != nil {
		return false, err
	}
	return false, nil
}

// Delete removes a catalog row.
func (r *CertificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM certifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete certification: %w", err)
	}
	return nil
}

// Count returns the number of catalog rows.
func (r *CertificationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM certifications`); err != nil {
		return 0, fmt.Errorf("count certifications: %w", err)
	}
	return count, nil
}
