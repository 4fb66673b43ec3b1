package service

import (
	"sort"
	"strings"

	"github.com/certtrack/certtrack-api/internal/models"
)

// Sort directions for catalog listings. The empty direction selects the
// default ordering (quality desc, then experience level desc).
const (
	SortAsc  = "asc"
	SortDesc = "desc"
	SortNone = ""
)

// qualityRank orders certificate quality descending. The catalog mixes a
// numeric "1".."5" scale with the legacy high/medium/low labels; legacy
// values map onto the numeric scale (high=5, medium=3, low=1).
var qualityRank = map[string]int{
	"5":      5,
	"4":      4,
	"3":      3,
	"2":      2,
	"1":      1,
	"high":   5,
	"medium": 3,
	"low":    1,
}

// experienceRank orders experience levels descending for the default sort
// and ascending for the filter option list.
var experienceRank = map[string]int{
	"expert":       4,
	"advanced":     3,
	"intermediate": 2,
	"entry-level":  1,
}

// FilterCertifications returns the subset of catalog matching the query.
// All predicates are ANDed; catalog order is preserved and no row is
// mutated. isFavorite supplies the caller's favorites lookup for the
// favorites-only toggle.
func FilterCertifications(catalog []models.Certification, filter models.CertificationFilter, isFavorite func(string) bool) []models.Certification {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Certification, 0, len(catalog))
	for _, cert := range catalog {
		if filter.FavoritesOnly && (isFavorite == nil || !isFavorite(cert.ID)) {
			continue
		}
		if search != "" && !strings.Contains(cert.SearchableText(), search) {
			continue
		}
		if !matchesExact(filter.Domain, cert.Domain) {
			continue
		}
		if !matchesMember(filter.LanguageFramework, cert.LanguageFramework) {
			continue
		}
		if !matchesMember(filter.Provider, cert.Provider) {
			continue
		}
		if !matchesExact(filter.ExperienceLevel, cert.ExperienceLevel) {
			continue
		}
		if !matchesExact(filter.Quality, cert.CertificateQuality) {
			continue
		}
		result = append(result, cert)
	}
	return result
}

func matchesExact(want, have string) bool {
	return want == "" || want == models.FilterAll || want == have
}

func matchesMember(want string, have []string) bool {
	if want == "" || want == models.FilterAll {
		return true
	}
	for _, v := range have {
		if v == want {
			return true
		}
	}
	return false
}

// SortCertifications orders rows by the given key and direction. String
// columns compare case-insensitively, price columns numerically. An empty
// or unknown key applies the default ordering. The sort is stable so ties
// keep their input order.
func SortCertifications(rows []models.Certification, key, direction string) []models.Certification {
	sorted := make([]models.Certification, len(rows))
	copy(sorted, rows)

	if key == "" || direction == SortNone {
		sort.SliceStable(sorted, func(i, j int) bool {
			return defaultLess(sorted[i], sorted[j])
		})
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		less, equal := compareByKey(sorted[i], sorted[j], key)
		if equal {
			return false
		}
		if direction == SortDesc {
			return !less
		}
		return less
	})
	return sorted
}

func compareByKey(a, b models.Certification, key string) (less, equal bool) {
	switch key {
	case "price":
		return a.Price < b.Price, a.Price == b.Price
	case "price_in_eur":
		return a.PriceInEUR < b.PriceInEUR, a.PriceInEUR == b.PriceInEUR
	}

	av := strings.ToLower(sortValue(a, key))
	bv := strings.ToLower(sortValue(b, key))
	return av < bv, av == bv
}

func sortValue(c models.Certification, key string) string {
	switch key {
	case "certification_name":
		return c.CertificationName
	case "domain":
		return c.Domain
	case "language_framework":
		return strings.Join(c.LanguageFramework, ", ")
	case "provider":
		return strings.Join(c.Provider, ", ")
	case "experience_level":
		return c.ExperienceLevel
	case "certificate_quality":
		return c.CertificateQuality
	case "currency":
		return c.Currency
	case "notes":
		return c.Notes
	default:
		return ""
	}
}

// defaultLess implements the documented default ordering: certificate
// quality descending by rank table, ties broken by experience level
// descending. Unrecognized values sort last and fall back to a
// lexicographic compare against each other.
func defaultLess(a, b models.Certification) bool {
	qa, okA := qualityRank[strings.ToLower(a.CertificateQuality)]
	qb, okB := qualityRank[strings.ToLower(b.CertificateQuality)]
	switch {
	case okA && okB:
		if qa != qb {
			return qa > qb
		}
	case okA:
		return true
	case okB:
		return false
	default:
		av := strings.ToLower(a.CertificateQuality)
		bv := strings.ToLower(b.CertificateQuality)
		if av != bv {
			return av < bv
		}
	}

	ea, okA := experienceRank[strings.ToLower(a.ExperienceLevel)]
	eb, okB := experienceRank[strings.ToLower(b.ExperienceLevel)]
	switch {
	case okA && okB:
		return ea > eb
	case okA:
		return true
	case okB:
		return false
	default:
		return strings.ToLower(a.ExperienceLevel) < strings.ToLower(b.ExperienceLevel)
	}
}

// NextSort advances the three-state column sort cycle: ascending on a new
// column, then descending, then cleared back to the default ordering.
func NextSort(currentKey, currentDirection, clickedKey string) (key, direction string) {
	if clickedKey != currentKey {
		return clickedKey, SortAsc
	}
	switch currentDirection {
	case SortAsc:
		return currentKey, SortDesc
	default:
		return "", SortNone
	}
}

// Paginate slices rows into the 1-indexed page, clamping the page number
// into [1, totalPages]. A non-positive pageSize falls back to 20.
func Paginate(rows []models.Certification, pageSize, page int) ([]models.Certification, int) {
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := (len(rows) + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start >= len(rows) {
		return []models.Certification{}, totalPages
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], totalPages
}

// PageWindow returns at most five page numbers centred on the current
// page, clamped at the edges.
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := current - 2
	if start > totalPages-4 {
		start = totalPages - 4
	}
	if start < 1 {
		start = 1
	}
	window := make([]int, 0, 5)
	for p := start; p <= totalPages && len(window) < 5; p++ {
		window = append(window, p)
	}
	return window
}

// CatalogFilterOptions enumerates the distinct values for each structured
// filter control. Experience levels come back in ladder order with
// unknown labels appended lexicographically; everything else is sorted
// lexicographically.
func CatalogFilterOptions(catalog []models.Certification) models.FilterOptions {
	domains := map[string]struct{}{}
	languages := map[string]struct{}{}
	providers := map[string]struct{}{}
	levels := map[string]struct{}{}
	qualities := map[string]struct{}{}

	for _, cert := range catalog {
		addNonEmpty(domains, cert.Domain)
		for _, l := range cert.LanguageFramework {
			addNonEmpty(languages, l)
		}
		for _, p := range cert.Provider {
			addNonEmpty(providers, p)
		}
		addNonEmpty(levels, cert.ExperienceLevel)
		addNonEmpty(qualities, cert.CertificateQuality)
	}

	return models.FilterOptions{
		Domains:          sortedKeys(domains),
		Languages:        sortedKeys(languages),
		Providers:        sortedKeys(providers),
		ExperienceLevels: sortedLevels(levels),
		Qualities:        sortedKeys(qualities),
	}
}

func addNonEmpty(set map[string]struct{}, value string) {
	if strings.TrimSpace(value) != "" {
		set[value] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedLevels(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, okI := experienceRank[strings.ToLower(keys[i])]
		rj, okJ := experienceRank[strings.ToLower(keys[j])]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		case okJ:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
