package dto

import "time"

// ApplyRequest submits a funding application for a catalog certification.
type ApplyRequest struct {
	CertificationID string  `json:"certification_id" validate:"required"`
	Reason          string  `json:"reason" validate:"required,max=2000"`
	EstimatedCost   float64 `json:"estimated_cost" validate:"gte=0"`
}

// CompleteCatalogRequest records a completion of a catalog certification.
type CompleteCatalogRequest struct {
	CertificationID string     `json:"certification_id" validate:"required"`
	CompletedAt     *time.Time `json:"completed_at"`
	CredentialURL   *string    `json:"credential_url" validate:"omitempty,url"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

// CompleteExternalRequest records a completion that has no catalog row.
type CompleteExternalRequest struct {
	CertificationName string     `json:"certification_name" validate:"required,max=300"`
	Provider          string     `json:"provider" validate:"required,max=200"`
	CompletedAt       *time.Time `json:"completed_at"`
	CredentialURL     *string    `json:"credential_url" validate:"omitempty,url"`
	ExpiresAt         *time.Time `json:"expires_at"`
}
