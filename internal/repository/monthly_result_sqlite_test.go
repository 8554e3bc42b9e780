package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/pkg/config"
	"github.com/sahidx/saroyar-sub004/pkg/database"
)

func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "results.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func cohortRows(batchID string) []models.MonthlyResult {
	return []models.MonthlyResult{
		{StudentID: "s1", BatchID: batchID, Year: 2024, Month: 5, ExamComponentPercent: 80, AttendanceComponentPercent: 100,
			FinalPercent: 76, GPA: 3.5, LetterGrade: "B+", GradeDescription: "Good", ClassRank: 1, ExamsCounted: 1, DaysPresent: 20, WorkingDays: 20},
		{StudentID: "s2", BatchID: batchID, Year: 2024, Month: 5, AttendanceComponentPercent: 50,
			FinalPercent: 10, LetterGrade: "F", GradeDescription: "Fail", ClassRank: 2, DaysPresent: 10, WorkingDays: 20},
	}
}

func TestMonthlyResultRepositoryRerunRewritesIdenticalRows(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()

	batch := &models.Batch{ID: "b1", Name: "Class 9 Morning", ClassLevel: 9}
	require.NoError(t, NewBatchRepository(db).Create(ctx, batch))
	students := NewStudentRepository(db)
	require.NoError(t, students.Create(ctx, &models.Student{ID: "s1", BatchID: "b1", FullName: "Amina", ClassLevel: 9, Active: true}))
	require.NoError(t, students.Create(ctx, &models.Student{ID: "s2", BatchID: "b1", FullName: "Rafi", ClassLevel: 9, Active: true}))

	repo := NewMonthlyResultRepository(db)
	run := models.MonthlyResultRun{BatchID: "b1", Year: 2024, Month: 5, GeneratedAt: time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)}

	require.NoError(t, repo.Replace(ctx, run, cohortRows("b1")))
	first, err := repo.ListByCohort(ctx, "b1", 2024, 5)
	require.NoError(t, err)
	require.Len(t, first, 2)

	run.GeneratedAt = run.GeneratedAt.Add(time.Hour)
	require.NoError(t, repo.Replace(ctx, run, cohortRows("b1")))
	second, err := repo.ListByCohort(ctx, "b1", 2024, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Amina", second[0].StudentName)
	assert.Equal(t, MonthlyResultID("b1", 2024, 5, "s1"), second[0].ID)

	stored, err := repo.GetRun(ctx, "b1", 2024, 5)
	require.NoError(t, err)
	assert.True(t, stored.GeneratedAt.Equal(run.GeneratedAt))
}
