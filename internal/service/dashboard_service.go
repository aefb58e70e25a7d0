package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

type dashboardRepo interface {
	Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DashboardService serves the admin summary, cached in Redis for the
// configured TTL. The cache is best effort; Redis failures fall back to
// the database.
type DashboardService struct {
	dashboard dashboardRepo
	cache     summaryCache
	metrics   *MetricsService
	ttl       time.Duration
	logger    *zap.Logger
}

// NewDashboardService constructs DashboardService. A nil cache disables
// caching entirely.
func NewDashboardService(dashboard dashboardRepo, cache summaryCache, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{dashboard: dashboard, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Summary returns the school-wide counts and today's attendance rate.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	if s.cache != nil {
		var cached models.DashboardSummary
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	start := time.Now()
	summary, err := s.dashboard.Summary(ctx, time.Now().UTC())
	if err != nil {
		return nil, mapStoreError(err, "dashboard summary unavailable")
	}
	s.metrics.ObserveDBQuery("dashboard_summary", time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary so the next read rebuilds it.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, dashboardCacheKey)
}
