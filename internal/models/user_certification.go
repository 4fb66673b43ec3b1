package models

import "time"

// UserCertificationStatus discriminates rows in the user_certifications
// table: "saved" rows are favorites, "completed" rows record finished
// catalog certifications.
type UserCertificationStatus string

const (
	UserCertificationSaved     UserCertificationStatus = "saved"
	UserCertificationCompleted UserCertificationStatus = "completed"
)

// UserCertification links a user to a catalog certification.
type UserCertification struct {
	ID              string                  `db:"id" json:"id"`
	UserID          string                  `db:"user_id" json:"user_id"`
	CertificationID string                  `db:"certification_id" json:"certification_id"`
	Status          UserCertificationStatus `db:"status" json:"status"`
	CompletedAt     *time.Time              `db:"completed_at" json:"completed_at,omitempty"`
	CredentialURL   *string                 `db:"credential_url" json:"credential_url,omitempty"`
	ExpiresAt       *time.Time              `db:"expires_at" json:"expires_at,omitempty"`
	ProofFile       *string                 `db:"proof_file" json:"proof_file,omitempty"`
	CreatedAt       time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time               `db:"updated_at" json:"updated_at"`

	// Denormalized from the catalog on read.
	CertificationName string `db:"certification_name" json:"certification_name"`
	Provider          string `db:"provider" json:"provider"`
}

// ExternalCertification is a self-reported completion that has no catalog
// backing row.
type ExternalCertification struct {
	ID                string     `db:"id" json:"id"`
	UserID            string     `db:"user_id" json:"user_id"`
	CertificationName string     `db:"certification_name" json:"certification_name"`
	Provider          string     `db:"provider" json:"provider"`
	CompletedAt       time.Time  `db:"completed_at" json:"completed_at"`
	CredentialURL     *string    `db:"credential_url" json:"credential_url,omitempty"`
	ExpiresAt         *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	ProofFile         *string    `db:"proof_file" json:"proof_file,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// CompletedCertification is the unified view over catalog-backed and
// external completions.
type CompletedCertification struct {
	ID                string     `json:"id"`
	CertificationID   string     `json:"certification_id"`
	CertificationName string     `json:"certification_name"`
	Provider          string     `json:"provider"`
	CompletedAt       time.Time  `json:"completed_at"`
	CredentialURL     *string    `json:"credential_url,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	ProofFile         *string    `json:"proof_file,omitempty"`
	IsExternal        bool       `json:"is_external"`
}
