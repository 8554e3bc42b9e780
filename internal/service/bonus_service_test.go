package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

func TestSetBonusValidatesRange(t *testing.T) {
	repo := &mockBonuses{}
	roster := &mockRoster{students: map[string][]models.Student{"b1": {{ID: "s1", BatchID: "b1"}}}}
	svc := NewBonusService(repo, roster, nil, nil)
	ctx := context.Background()

	for _, pct := range []float64{-0.5, 100.5} {
		_, err := svc.Set(ctx, SetBonusRequest{StudentID: "s1", BatchID: "b1", Year: 2024, Month: 5, BonusPercent: pct})
		assert.True(t, errors.Is(err, appErrors.ErrInvalidPercentage), "percent %v", pct)
	}

	_, err := svc.Set(ctx, SetBonusRequest{StudentID: "s1", BatchID: "b2", Year: 2024, Month: 5, BonusPercent: 5})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	bonus, err := svc.Set(ctx, SetBonusRequest{StudentID: "s1", BatchID: "b1", Year: 2024, Month: 5, BonusPercent: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, bonus.BonusPercent)
	assert.Len(t, repo.saved, 1)
}
