package models

// UserState is the per-user snapshot read alongside the catalog: favorite
// markers, funding applications and completed certifications. It is also
// the JSON blob persisted by the file-backed fallback store.
type UserState struct {
	Favorites    []string                 `json:"favorites"`
	Applications []FundingApplication     `json:"applications"`
	Completed    []CompletedCertification `json:"completed_certifications"`
}

// IsFavorite reports whether the certification is marked as favorite.
func (s UserState) IsFavorite(certID string) bool {
	for _, id := range s.Favorites {
		if id == certID {
			return true
		}
	}
	return false
}

// HasApplied reports whether any funding application exists for the
// certification, regardless of status.
func (s UserState) HasApplied(certID string) bool {
	for _, app := range s.Applications {
		if app.CertificationID == certID {
			return true
		}
	}
	return false
}

// ApplicationStatus returns the status of the most recently created
// application for the certification, or "" when none exists.
func (s UserState) ApplicationStatus(certID string) ApplicationStatus {
	var latest *FundingApplication
	for i := range s.Applications {
		app := &s.Applications[i]
		if app.CertificationID != certID {
			continue
		}
		if latest == nil || app.CreatedAt.After(latest.CreatedAt) {
			latest = app
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Status
}

// IsCompleted reports whether the certification has a completion record.
func (s UserState) IsCompleted(certID string) bool {
	for _, c := range s.Completed {
		if c.CertificationID == certID {
			return true
		}
	}
	return false
}
