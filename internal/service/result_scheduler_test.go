package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/dto"
)

type recordingSweeper struct {
	year, month int
}

func (r *recordingSweeper) GenerateForAllBatches(ctx context.Context, year, month int) (*dto.BatchRunSummary, error) {
	r.year, r.month = year, month
	return &dto.BatchRunSummary{Year: year, Month: month}, nil
}

func TestPreviousMonth(t *testing.T) {
	y, m := PreviousMonth(time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, 2023, y)
	assert.Equal(t, 12, m)

	y, m = PreviousMonth(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2024, y)
	assert.Equal(t, 2, m)
}

func TestResultSchedulerSweepsPreviousMonth(t *testing.T) {
	sweeper := &recordingSweeper{}
	scheduler, err := NewResultScheduler(sweeper, "0 2 1 * *", time.Minute, nil)
	require.NoError(t, err)
	scheduler.now = func() time.Time { return time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC) }

	scheduler.runOnce()
	assert.Equal(t, 2024, sweeper.year)
	assert.Equal(t, 5, sweeper.month)
}

func TestResultSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewResultScheduler(&recordingSweeper{}, "every month", time.Minute, nil)
	assert.Error(t, err)
}
