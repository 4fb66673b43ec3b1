package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
)

func cert(id, name string, opts ...func(*models.Certification)) models.Certification {
	c := models.Certification{
		ID:                 id,
		CertificationName:  name,
		Domain:             "Cloud",
		LanguageFramework:  []string{},
		Provider:           []string{},
		ExperienceLevel:    "intermediate",
		CertificateQuality: "3",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func withDomain(domain string) func(*models.Certification) {
	return func(c *models.Certification) { c.Domain = domain }
}

func withLanguages(langs ...string) func(*models.Certification) {
	return func(c *models.Certification) { c.LanguageFramework = langs }
}

func withProviders(providers ...string) func(*models.Certification) {
	return func(c *models.Certification) { c.Provider = providers }
}

func withQuality(q string) func(*models.Certification) {
	return func(c *models.Certification) { c.CertificateQuality = q }
}

func withLevel(level string) func(*models.Certification) {
	return func(c *models.Certification) { c.ExperienceLevel = level }
}

func ids(rows []models.Certification) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestFilterCertificationsIsSubset(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "AWS Solutions Architect", withProviders("AWS")),
		cert("2", "Azure Fundamentals", withProviders("Microsoft")),
		cert("3", "CKA", withDomain("DevOps"), withLanguages("Go")),
	}
	result := FilterCertifications(catalog, models.CertificationFilter{Domain: "Cloud"}, nil)

	seen := map[string]int{}
	for _, r := range result {
		seen[r.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "row %s duplicated", id)
	}
	assert.Subset(t, ids(catalog), ids(result))
}

func TestFilterCertificationsSearch(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "AWS Solutions Architect"),
		cert("2", "Azure Fundamentals"),
	}
	result := FilterCertifications(catalog, models.CertificationFilter{Search: "aws"}, nil)
	require.Len(t, result, 1)
	assert.Equal(t, "AWS Solutions Architect", result[0].CertificationName)
}

func TestFilterCertificationsSearchMatchesNotes(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "CKA", func(c *models.Certification) { c.Notes = "kubernetes admin track" }),
		cert("2", "CKS"),
	}
	result := FilterCertifications(catalog, models.CertificationFilter{Search: "KUBERNETES"}, nil)
	require.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)
}

func TestFilterCertificationsAllSentinelIsIdentity(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A"),
		cert("2", "B", withDomain("Security")),
		cert("3", "C"),
	}
	filter := models.CertificationFilter{
		Domain:            models.FilterAll,
		LanguageFramework: models.FilterAll,
		Provider:          models.FilterAll,
		ExperienceLevel:   models.FilterAll,
		Quality:           models.FilterAll,
	}
	result := FilterCertifications(catalog, filter, nil)
	assert.Equal(t, ids(catalog), ids(result))
}

func TestFilterCertificationsMembership(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", withLanguages("Go", "Python")),
		cert("2", "B", withLanguages("Java")),
		cert("3", "C", withProviders("AWS", "Coursera")),
	}

	byLang := FilterCertifications(catalog, models.CertificationFilter{LanguageFramework: "Go"}, nil)
	assert.Equal(t, []string{"1"}, ids(byLang))

	byProvider := FilterCertifications(catalog, models.CertificationFilter{Provider: "Coursera"}, nil)
	assert.Equal(t, []string{"3"}, ids(byProvider))
}

func TestFilterCertificationsFavoritesOnly(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A"),
		cert("2", "B"),
	}
	favorites := map[string]bool{"2": true}
	result := FilterCertifications(catalog, models.CertificationFilter{FavoritesOnly: true}, func(id string) bool {
		return favorites[id]
	})
	assert.Equal(t, []string{"2"}, ids(result))
}

func TestSortCertificationsAscDescAreReverses(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "Bravo"),
		cert("2", "alpha"),
		cert("3", "Charlie"),
	}
	asc := SortCertifications(catalog, "certification_name", SortAsc)
	desc := SortCertifications(catalog, "certification_name", SortDesc)

	require.Len(t, asc, 3)
	require.Len(t, desc, 3)
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
	assert.Equal(t, []string{"2", "1", "3"}, ids(asc))
}

func TestSortCertificationsNumericColumn(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", func(c *models.Certification) { c.PriceInEUR = 300 }),
		cert("2", "B", func(c *models.Certification) { c.PriceInEUR = 50 }),
		cert("3", "C", func(c *models.Certification) { c.PriceInEUR = 120.5 }),
	}
	asc := SortCertifications(catalog, "price_in_eur", SortAsc)
	assert.Equal(t, []string{"2", "3", "1"}, ids(asc))
}

func TestSortCycleReturnsToDefault(t *testing.T) {
	key, dir := NextSort("", SortNone, "domain")
	assert.Equal(t, "domain", key)
	assert.Equal(t, SortAsc, dir)

	key, dir = NextSort(key, dir, "domain")
	assert.Equal(t, "domain", key)
	assert.Equal(t, SortDesc, dir)

	key, dir = NextSort(key, dir, "domain")
	assert.Equal(t, "", key)
	assert.Equal(t, SortNone, dir)

	// A different column restarts the cycle at ascending.
	key, dir = NextSort("domain", SortAsc, "provider")
	assert.Equal(t, "provider", key)
	assert.Equal(t, SortAsc, dir)
}

func TestSortCycleRestoresOriginalOrder(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "Charlie", withQuality("5")),
		cert("2", "alpha", withQuality("3")),
		cert("3", "Bravo", withQuality("1")),
	}
	defaultOrder := ids(SortCertifications(catalog, "", SortNone))

	key, dir := NextSort("", SortNone, "certification_name")
	_ = SortCertifications(catalog, key, dir)
	key, dir = NextSort(key, dir, "certification_name")
	_ = SortCertifications(catalog, key, dir)
	key, dir = NextSort(key, dir, "certification_name")

	assert.Equal(t, defaultOrder, ids(SortCertifications(catalog, key, dir)))
}

func TestDefaultOrderingQualityDescending(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", withQuality("3")),
		cert("2", "B", withQuality("5")),
		cert("3", "C", withQuality("1")),
	}
	sorted := SortCertifications(catalog, "", SortNone)
	qualities := make([]string, len(sorted))
	for i, c := range sorted {
		qualities[i] = c.CertificateQuality
	}
	assert.Equal(t, []string{"5", "3", "1"}, qualities)
}

func TestDefaultOrderingLegacyLabelsAndUnknowns(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", withQuality("??")),
		cert("2", "B", withQuality("medium")),
		cert("3", "C", withQuality("high")),
		cert("4", "D", withQuality("aa")),
	}
	sorted := SortCertifications(catalog, "", SortNone)
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(sorted))
}

func TestDefaultOrderingExperienceTieBreak(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", withQuality("4"), withLevel("entry-level")),
		cert("2", "B", withQuality("4"), withLevel("expert")),
		cert("3", "C", withQuality("4"), withLevel("advanced")),
	}
	sorted := SortCertifications(catalog, "", SortNone)
	assert.Equal(t, []string{"2", "3", "1"}, ids(sorted))
}

func TestPaginateClampsAndCounts(t *testing.T) {
	catalog := make([]models.Certification, 45)
	for i := range catalog {
		catalog[i] = cert(string(rune('a'+i%26))+string(rune('0'+i/26)), "X")
	}

	page1, totalPages := Paginate(catalog, 20, 1)
	assert.Equal(t, 3, totalPages)
	assert.Len(t, page1, 20)

	page3, _ := Paginate(catalog, 20, 3)
	assert.Len(t, page3, 5)

	beyond, _ := Paginate(catalog, 20, 99)
	assert.Equal(t, ids(page3), ids(beyond))

	under, _ := Paginate(catalog, 20, 0)
	assert.Equal(t, ids(page1), ids(under))
}

func TestPaginateEmptyCatalog(t *testing.T) {
	rows, totalPages := Paginate(nil, 10, 1)
	assert.Empty(t, rows)
	assert.Equal(t, 0, totalPages)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"middle", 5, 10, []int{3, 4, 5, 6, 7}},
		{"near start", 1, 10, []int{1, 2, 3, 4, 5}},
		{"near end", 10, 10, []int{6, 7, 8, 9, 10}},
		{"few pages", 2, 3, []int{1, 2, 3}},
		{"single page", 1, 1, []int{1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PageWindow(tc.current, tc.total))
		})
	}
}

func TestCatalogFilterOptionsLevelOrder(t *testing.T) {
	catalog := []models.Certification{
		cert("1", "A", withLevel("expert")),
		cert("2", "B", withLevel("entry-level")),
		cert("3", "C", withLevel("wizard")),
		cert("4", "D", withLevel("advanced")),
	}
	opts := CatalogFilterOptions(catalog)
	assert.Equal(t, []string{"entry-level", "advanced", "expert", "wizard"}, opts.ExperienceLevels)
}
