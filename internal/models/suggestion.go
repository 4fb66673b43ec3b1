package models

import "time"

// SuggestionStatus is the review state of a catalog suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// CertificationSuggestion is a user-submitted proposal for a catalog
// addition. Status transitions are admin-only.
type CertificationSuggestion struct {
	ID                string           `db:"id" json:"id"`
	UserID            string           `db:"user_id" json:"user_id"`
	CertificationName string           `db:"certification_name" json:"certification_name"`
	Provider          string           `db:"provider" json:"provider"`
	Reason            string           `db:"reason" json:"reason"`
	URL               string           `db:"url" json:"url"`
	Status            SuggestionStatus `db:"status" json:"status"`
	AdminNotes        *string          `db:"admin_notes" json:"admin_notes,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`

	UserEmail string `db:"user_email" json:"user_email,omitempty"`
}
