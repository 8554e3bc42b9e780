package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
)

type bonusRepoStub struct {
	saved *models.MonthlyBonus
}

func (s *bonusRepoStub) Upsert(ctx context.Context, bonus *models.MonthlyBonus) error {
	s.saved = bonus
	return nil
}

func (s *bonusRepoStub) Get(ctx context.Context, studentID, batchID string, year, month int) (float64, error) {
	return 0, nil
}

type studentRepoStub struct {
	students map[string]models.Student
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student) error { return nil }

func (s *studentRepoStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func (s *studentRepoStub) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	return nil, nil
}

func newBonusHandler(repo *bonusRepoStub) *BonusHandler {
	students := &studentRepoStub{students: map[string]models.Student{"s1": {ID: "s1", BatchID: "b1"}}}
	return NewBonusHandler(service.NewBonusService(repo, students, nil, nil))
}

func TestBonusHandlerSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &bonusRepoStub{}
	h := newBonusHandler(repo)

	payload, _ := json.Marshal(service.SetBonusRequest{StudentID: "s1", BatchID: "b1", Year: 2024, Month: 5, BonusPercent: 7.5})
	c, w := newGinContext(http.MethodPut, "/results/bonus", payload)
	h.Set(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.saved)
	assert.Equal(t, 7.5, repo.saved.BonusPercent)
}

func TestBonusHandlerSetRejectsInvalidInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]struct {
		body   service.SetBonusRequest
		status int
	}{
		"above hundred":   {service.SetBonusRequest{StudentID: "s1", BatchID: "b1", Year: 2024, Month: 5, BonusPercent: 120}, http.StatusBadRequest},
		"unknown student": {service.SetBonusRequest{StudentID: "s9", BatchID: "b1", Year: 2024, Month: 5, BonusPercent: 5}, http.StatusNotFound},
		"bad month":       {service.SetBonusRequest{StudentID: "s1", BatchID: "b1", Year: 2024, Month: 13, BonusPercent: 5}, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &bonusRepoStub{}
			payload, _ := json.Marshal(tc.body)
			c, w := newGinContext(http.MethodPut, "/results/bonus", payload)
			newBonusHandler(repo).Set(c)
			assert.Equal(t, tc.status, w.Code)
			assert.Nil(t, repo.saved)
		})
	}

	c, w := newGinContext(http.MethodPut, "/results/bonus", []byte("{"))
	newBonusHandler(&bonusRepoStub{}).Set(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
