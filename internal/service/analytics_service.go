package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/certtrack/certtrack-api/internal/dto"
	"github.com/certtrack/certtrack-api/internal/models"
	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

const adminStatsCacheKey = "analytics:admin_stats"

type analyticsRepository interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	CompletionsByUser(ctx context.Context) ([]models.UserCompletionSummary, error)
}

// AnalyticsService assembles the admin dashboard payload.
type AnalyticsService struct {
	repo     analyticsRepository
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Dashboard returns aggregate stats, per-user completion rollups and a
// runtime metrics snapshot. The database aggregates are cached; the
// metrics snapshot is always fresh.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	type cachedAggregates struct {
		Stats       models.AdminStats              `json:"stats"`
		Completions []models.UserCompletionSummary `json:"completions"`
	}

	var aggregates cachedAggregates
	hit, _ := s.cache.Get(ctx, adminStatsCacheKey, &aggregates)
	if !hit {
		stats, err := s.repo.Stats(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin stats")
		}
		completions, err := s.repo.CompletionsByUser(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completion rollup")
		}
		aggregates = cachedAggregates{Stats: *stats, Completions: completions}
		if err := s.cache.Set(ctx, adminStatsCacheKey, aggregates, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache admin stats", zap.Error(err))
		}
	}

	return &dto.AdminDashboard{
		Stats:       aggregates.Stats,
		Completions: aggregates.Completions,
		Metrics:     s.metrics.Snapshot(),
	}, nil
}

// Invalidate drops the cached aggregates.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, adminStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate admin stats cache", zap.Error(err))
	}
}
