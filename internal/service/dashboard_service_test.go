package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeDashboardRepo struct {
	summary *models.DashboardSummary
	calls   int
}

func (f *fakeDashboardRepo) Summary(context.Context, time.Time) (*models.DashboardSummary, error) {
	f.calls++
	return f.summary, nil
}

type fakeSummaryCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	deleted []string
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: map[string][]byte{}}
}

func (f *fakeSummaryCache) Get(_ context.Context, key string, dest interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeSummaryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeSummaryCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func TestDashboardSummaryCacheMissFallsThroughAndStores(t *testing.T) {
	rate := 0.9
	repo := &fakeDashboardRepo{summary: &models.DashboardSummary{
		ActiveStudents:   120,
		ActiveCourses:    8,
		TotalEnrollments: 300,
		PresentToday:     108,
		RecordedToday:    120,
		GeneratedAt:      time.Now().UTC(),
		AttendanceRate:   &rate,
	}}
	cache := newFakeSummaryCache()
	svc := NewDashboardService(repo, cache, nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, summary.ActiveStudents)
	assert.Equal(t, 1, repo.calls)
	assert.Contains(t, cache.entries, dashboardCacheKey)
}

func TestDashboardSummaryCacheHitSkipsRepository(t *testing.T) {
	repo := &fakeDashboardRepo{summary: &models.DashboardSummary{ActiveStudents: 120}}
	cache := newFakeSummaryCache()
	svc := NewDashboardService(repo, cache, nil, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, summary.ActiveStudents)
	assert.Equal(t, 1, repo.calls, "second read must come from the cache")
}

func TestDashboardSummaryWithoutCache(t *testing.T) {
	repo := &fakeDashboardRepo{summary: &models.DashboardSummary{ActiveCourses: 4}}
	svc := NewDashboardService(repo, nil, nil, 0, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ActiveCourses)
}

func TestDashboardSummarySurvivesCacheWriteFailure(t *testing.T) {
	repo := &fakeDashboardRepo{summary: &models.DashboardSummary{ActiveStudents: 7}}
	cache := newFakeSummaryCache()
	cache.getErr = appErrors.ErrCacheMiss
	cache.setErr = assert.AnError
	svc := NewDashboardService(repo, cache, nil, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, summary.ActiveStudents)
}

func TestDashboardInvalidateDropsEntry(t *testing.T) {
	repo := &fakeDashboardRepo{summary: &models.DashboardSummary{}}
	cache := newFakeSummaryCache()
	svc := NewDashboardService(repo, cache, nil, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Contains(t, cache.entries, dashboardCacheKey)

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.NotContains(t, cache.entries, dashboardCacheKey)
	assert.Equal(t, []string{dashboardCacheKey}, cache.deleted)
}
