package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceHitAndMissAreCounted(t *testing.T) {
	metrics := NewMetricsService()
	repo := &mockCacheRepo{store: map[string]interface{}{}}
	cache := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out models.MonthlyResultSet
	assert.False(t, cache.Get(ctx, "results:cohort:b1:2024:5", &out))

	cache.Set(ctx, "results:cohort:b1:2024:5", &models.MonthlyResultSet{BatchID: "b1", Year: 2024, Month: 5}, 0)
	assert.True(t, cache.Get(ctx, "results:cohort:b1:2024:5", &out))
	assert.Equal(t, "b1", out.BatchID)

	assert.Equal(t, float64(1), counterValue(t, metrics, "cache_hits_total"))
	assert.Equal(t, float64(1), counterValue(t, metrics, "cache_misses_total"))

	cache.Invalidate(ctx, "results:cohort:b1:2024:5")
	assert.Equal(t, []string{"results:cohort:b1:2024:5"}, repo.deleted)
}

func TestCacheServiceSwallowsBackendFailures(t *testing.T) {
	cache := NewCacheService(failingCacheRepo{}, nil, 0, nil, true)
	ctx := context.Background()

	var out models.MonthlyResultSet
	assert.False(t, cache.Get(ctx, "k", &out))
	assert.NotPanics(t, func() {
		cache.Set(ctx, "k", out, 0)
		cache.Invalidate(ctx, "k*")
	})
}

func TestCacheServiceDisabled(t *testing.T) {
	var nilCache *CacheService
	assert.False(t, nilCache.Enabled())
	assert.False(t, nilCache.Get(context.Background(), "k", &models.MonthlyResultSet{}))

	disabled := NewCacheService(&mockCacheRepo{store: map[string]interface{}{}}, nil, 0, nil, false)
	assert.False(t, disabled.Enabled())
}

func counterValue(t *testing.T, metrics *MetricsService, name string) float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name && len(family.GetMetric()) > 0 {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
