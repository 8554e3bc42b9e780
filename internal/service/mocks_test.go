package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/jobs"
)

type mockRoster struct {
	students map[string][]models.Student
	err      error
	entered  chan struct{}
	release  chan struct{}
}

func (m *mockRoster) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, roster := range m.students {
		for i := range roster {
			if roster[i].ID == id {
				st := roster[i]
				return &st, nil
			}
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoster) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Student(nil), m.students[batchID]...), nil
}

func (m *mockRoster) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = map[string][]models.Student{}
	}
	if student.ID == "" {
		student.ID = "generated-student"
	}
	m.students[student.BatchID] = append(m.students[student.BatchID], *student)
	return nil
}

type mockBatches struct {
	batches []models.Batch
	err     error
}

func (m *mockBatches) Create(ctx context.Context, batch *models.Batch) error {
	if batch.ID == "" {
		batch.ID = "generated-batch"
	}
	m.batches = append(m.batches, *batch)
	return nil
}

func (m *mockBatches) FindByID(ctx context.Context, id string) (*models.Batch, error) {
	for i := range m.batches {
		if m.batches[i].ID == id {
			b := m.batches[i]
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBatches) List(ctx context.Context) ([]models.Batch, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.batches, nil
}

type mockExamScores struct {
	scores map[string][]models.ExamScore
	err    error
}

func (m *mockExamScores) ListScoresByStudent(ctx context.Context, studentID string, start, end time.Time) ([]models.ExamScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores[studentID], nil
}

type mockAttendance struct {
	present map[string]int
	err     error
}

func (m *mockAttendance) WorkingDayAttendance(ctx context.Context, studentID string, period models.Period, workingDays []time.Time) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.present[studentID], nil
}

type mockBonuses struct {
	bonus map[string]float64
	saved []models.MonthlyBonus
}

func (m *mockBonuses) Get(ctx context.Context, studentID, batchID string, year, month int) (float64, error) {
	return m.bonus[studentID], nil
}

func (m *mockBonuses) Upsert(ctx context.Context, bonus *models.MonthlyBonus) error {
	m.saved = append(m.saved, *bonus)
	return nil
}

type mockCalendar struct {
	days    []time.Time
	working map[time.Time]bool
	err     error
}

func (m *mockCalendar) WorkingDays(ctx context.Context, period models.Period) ([]time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.days, nil
}

func (m *mockCalendar) IsWorkingDay(ctx context.Context, day time.Time) (bool, error) {
	return m.working[models.TruncateDay(day)], nil
}

type mockResultStore struct {
	mu       sync.Mutex
	runs     map[string]models.MonthlyResultRun
	results  map[string][]models.MonthlyResult
	replaces int
	err      error
}

func newMockResultStore() *mockResultStore {
	return &mockResultStore{runs: map[string]models.MonthlyResultRun{}, results: map[string][]models.MonthlyResult{}}
}

func (m *mockResultStore) Replace(ctx context.Context, run models.MonthlyResultRun, results []models.MonthlyResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	key := models.CohortKey{BatchID: run.BatchID, Year: run.Year, Month: run.Month}.String()
	m.runs[key] = run
	m.results[key] = append([]models.MonthlyResult(nil), results...)
	m.replaces++
	return nil
}

func (m *mockResultStore) GetRun(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[models.CohortKey{BatchID: batchID, Year: year, Month: month}.String()]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &run, nil
}

func (m *mockResultStore) ListByCohort(ctx context.Context, batchID string, year, month int) ([]models.MonthlyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results[models.CohortKey{BatchID: batchID, Year: year, Month: month}.String()], nil
}

func (m *mockResultStore) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.MonthlyResult
	for _, rows := range m.results {
		for _, r := range rows {
			if r.StudentID == studentID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type mockQueue struct {
	jobs []jobs.Job
	err  error
}

func (m *mockQueue) Enqueue(ctx context.Context, job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

type mockCacheRepo struct {
	store   map[string]interface{}
	deleted []string
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*models.MonthlyResultSet)) = *(v.(*models.MonthlyResultSet))
	return nil
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.store[key] = value
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deleted = append(m.deleted, pattern)
	delete(m.store, pattern)
	return nil
}
