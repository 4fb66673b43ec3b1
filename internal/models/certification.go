package models

import (
	"strings"
	"time"
)

// CertificationRow is the raw relational shape of a catalog entry.
// Multi-valued columns are stored comma separated and normalised into
// Certification before any filtering or sorting happens.
type CertificationRow struct {
	ID                 string    `db:"id"`
	CertificationName  string    `db:"certification_name"`
	Domain             string    `db:"domain"`
	LanguageFramework  string    `db:"language_framework"`
	URL                string    `db:"url"`
	Provider           string    `db:"provider"`
	Price              float64   `db:"price"`
	Currency           string    `db:"currency"`
	ExperienceLevel    string    `db:"experience_level"`
	CertificateQuality string    `db:"certificate_quality"`
	LastChecked        time.Time `db:"last_checked"`
	Notes              string    `db:"notes"`
	PriceInEUR         float64   `db:"price_in_eur"`
}

// Certification is the canonical in-memory catalog entry.
type Certification struct {
	ID                 string    `json:"id"`
	CertificationName  string    `json:"certification_name"`
	Domain             string    `json:"domain"`
	LanguageFramework  []string  `json:"language_framework"`
	URL                string    `json:"url"`
	Provider           []string  `json:"provider"`
	Price              float64   `json:"price"`
	Currency           string    `json:"currency"`
	ExperienceLevel    string    `json:"experience_level"`
	CertificateQuality string    `json:"certificate_quality"`
	LastChecked        time.Time `json:"last_checked"`
	Notes              string    `json:"notes"`
	PriceInEUR         float64   `json:"price_in_eur"`
}

// Normalize maps a raw row into the canonical shape: multi-valued fields
// become slices, missing currency defaults to USD and the reference price
// is clamped to non-negative.
func (r CertificationRow) Normalize() Certification {
	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}
	priceEUR := r.PriceInEUR
	if priceEUR < 0 {
		priceEUR = 0
	}
	return Certification{
		ID:                 r.ID,
		CertificationName:  r.CertificationName,
		Domain:             r.Domain,
		LanguageFramework:  splitList(r.LanguageFramework),
		URL:                r.URL,
		Provider:           splitList(r.Provider),
		Price:              r.Price,
		Currency:           currency,
		ExperienceLevel:    r.ExperienceLevel,
		CertificateQuality: r.CertificateQuality,
		LastChecked:        r.LastChecked,
		Notes:              r.Notes,
		PriceInEUR:         priceEUR,
	}
}

// SearchableText builds the synthetic string free-text search matches against.
func (c Certification) SearchableText() string {
	parts := []string{
		c.CertificationName,
		c.Domain,
		strings.Join(c.LanguageFramework, " "),
		strings.Join(c.Provider, " "),
		c.ExperienceLevel,
		c.Notes,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// FilterAll is the sentinel meaning "no constraint" for structured filters.
const FilterAll = "all"

// CertificationFilter captures the catalog listing criteria.
type CertificationFilter struct {
	Search            string
	FavoritesOnly     bool
	Domain            string
	LanguageFramework string
	Provider          string
	ExperienceLevel   string
	Quality           string

	SortKey       string
	SortDirection string

	Page     int
	PageSize int
}

// FilterOptions enumerates distinct values for the structured filter controls.
type FilterOptions struct {
	Domains          []string `json:"domains"`
	Languages        []string `json:"languages"`
	Providers        []string `json:"providers"`
	ExperienceLevels []string `json:"experience_levels"`
	Qualities        []string `json:"qualities"`
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
