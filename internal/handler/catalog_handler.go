package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/models"
	"github.com/certtrack/certtrack-api/internal/service"
	"github.com/certtrack/certtrack-api/pkg/response"
)

// CatalogHandler exposes the certification catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List certifications
// @Description Filter, sort and paginate the catalog. Authenticated requests get per-user markers.
// @Tags Catalog
// @Produce json
// @Param search query string false "Substring match on name and notes"
// @Param favorites_only query bool false "Restrict to favorites"
// @Param domain query string false "Filter by domain"
// @Param language query string false "Filter by language or framework"
// @Param provider query string false "Filter by provider"
// @Param level query string false "Filter by experience level"
// @Param quality query string false "Filter by certificate quality"
// @Param sort query string false "Sort column"
// @Param direction query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /certifications [get]
func (h *CatalogHandler) List(c *gin.Context) {
	filter := parseCatalogFilter(c)

	userID := ""
	if claims := claimsFromContext(c); claims != nil {
		userID = claims.UserID
	}

	page, pagination, err := h.catalog.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, pagination, map[string]interface{}{
		"page_sizes": h.catalog.PageSizes(),
	})
}

// Get godoc
// @Summary Get certification detail
// @Tags Catalog
// @Produce json
// @Param id path string true "Certification ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certifications/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	cert, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cert, nil)
}

// FilterOptions godoc
// @Summary List distinct filter values
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /certifications/filter-options [get]
func (h *CatalogHandler) FilterOptions(c *gin.Context) {
	opts, err := h.catalog.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opts, nil)
}

func parseCatalogFilter(c *gin.Context) models.CertificationFilter {
	var filter models.CertificationFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.FavoritesOnly = c.Query("favorites_only") == "true"
	filter.Domain = c.Query("domain")
	filter.LanguageFramework = c.Query("language")
	filter.Provider = c.Query("provider")
	filter.ExperienceLevel = c.Query("level")
	filter.Quality = c.Query("quality")
	filter.SortKey = c.Query("sort")
	filter.SortDirection = c.Query("direction")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "0")); err == nil {
		filter.PageSize = size
	}
	return filter
}
