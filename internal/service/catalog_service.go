package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

const catalogCacheKey = "catalog:all"

type catalogRepository interface {
	ListAll(ctx context.Context) ([]models.CertificationRow, error)
	FindByID(ctx context.Context, id string) (*models.CertificationRow, error)
}

// userStateProvider supplies the per-user snapshot used to annotate
// catalog rows.
type userStateProvider interface {
	State(ctx context.Context, userID string) (models.UserState, error)
}

// CatalogConfig tunes catalog listing behaviour.
type CatalogConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	PageSizes       []int
}

// CatalogService loads the normalised catalog and runs the in-memory
// filter, sort and pagination pipeline over it.
type CatalogService struct {
	repo   catalogRepository
	states userStateProvider
	cache  *CacheService
	config CatalogConfig
	logger *zap.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogRepository, states userStateProvider, cache *CacheService, config CatalogConfig, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 20
	}
	if len(config.PageSizes) == 0 {
		config.PageSizes = []int{10, 20, 50}
	}
	return &CatalogService{repo: repo, states: states, cache: cache, config: config, logger: logger}
}

// LoadCatalog returns the full normalised catalog, via cache when enabled.
func (s *CatalogService) LoadCatalog(ctx context.Context) ([]models.Certification, error) {
	var cached []models.Certification
	if hit, err := s.cache.Get(ctx, catalogCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	catalog := make([]models.Certification, 0, len(rows))
	for _, row := range rows {
		catalog = append(catalog, row.Normalize())
	}

	if err := s.cache.Set(ctx, catalogCacheKey, catalog, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog", zap.Error(err))
	}
	return catalog, nil
}

// List runs the filter, sort and pagination pipeline and annotates each
// row with the user's favorites, applications and completions. An empty
// userID yields unannotated rows.
func (s *CatalogService) List(ctx context.Context, userID string, filter models.CertificationFilter) (*dto.CatalogPage, *models.Pagination, error) {
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	state := models.UserState{}
	if userID != "" && s.states != nil {
		state, err = s.states.State(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
	}

	filtered := FilterCertifications(catalog, filter, state.IsFavorite)
	sorted := SortCertifications(filtered, filter.SortKey, filter.SortDirection)

	pageSize := s.normalizePageSize(filter.PageSize)
	pageRows, totalPages := Paginate(sorted, pageSize, filter.Page)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	items := make([]dto.CatalogItem, 0, len(pageRows))
	for _, cert := range pageRows {
		items = append(items, dto.CatalogItem{
			Certification:     cert,
			IsFavorite:        state.IsFavorite(cert.ID),
			HasApplied:        state.HasApplied(cert.ID),
			ApplicationStatus: state.ApplicationStatus(cert.ID),
			IsCompleted:       state.IsCompleted(cert.ID),
		})
	}

	payload := &dto.CatalogPage{
		Items:         items,
		SortKey:       filter.SortKey,
		SortDirection: filter.SortDirection,
		PageWindow:    PageWindow(page, totalPages),
		FilterOptions: CatalogFilterOptions(catalog),
	}
	pagination := &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(sorted),
		TotalPages: totalPages,
	}
	return payload, pagination, nil
}

// GetByID returns one normalised catalog entry.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Certification, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certification")
	}
	cert := row.Normalize()
	return &cert, nil
}

// FilterOptions returns the distinct values backing the filter controls.
func (s *CatalogService) FilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	opts := CatalogFilterOptions(catalog)
	return &opts, nil
}

// PageSizes exposes the configured page size choices.
func (s *CatalogService) PageSizes() []int {
	return s.config.PageSizes
}

// InvalidateCache drops the cached catalog, called after imports and
// suggestion approvals.
func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

func (s *CatalogService) normalizePageSize(requested int) int {
	if requested <= 0 {
		return s.config.DefaultPageSize
	}
	for _, size := range s.config.PageSizes {
		if requested == size {
			return requested
		}
	}
	return s.config.DefaultPageSize
}
