package dto

// SuggestionRequest submits a catalog suggestion.
type SuggestionRequest struct {
	CertificationName string `json:"certification_name" validate:"required,max=300"`
	Provider          string `json:"provider" validate:"required,max=200"`
	Reason            string `json:"reason" validate:"required,max=2000"`
	URL               string `json:"url" validate:"omitempty,url"`
}

// SuggestionReviewRequest transitions a suggestion.
type SuggestionReviewRequest struct {
	Approve    bool    `json:"approve"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}
