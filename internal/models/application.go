package models

import "time"

// ApplicationStatus is the lifecycle state of a funding application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// FundingApplication is a user's request for employer funding toward one
// certification. Multiple historical applications per (user, certification)
// pair are permitted; the most recently created one defines current status.
type FundingApplication struct {
	ID                string            `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	CertificationID   string            `db:"certification_id" json:"certification_id"`
	CertificationName string            `db:"certification_name" json:"certification_name"`
	Status            ApplicationStatus `db:"status" json:"status"`
	Reason            string            `db:"reason" json:"reason"`
	EstimatedCost     float64           `db:"estimated_cost" json:"estimated_cost"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// AdminApplication augments an application with the owner's email for
// the admin review queue.
type AdminApplication struct {
	FundingApplication
	UserEmail string `db:"user_email" json:"user_email"`
}
