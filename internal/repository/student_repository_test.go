package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestStudentRepositoryListByBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "batch_id", "full_name", "class_level", "phone", "active", "enrolled_at"}).
		AddRow("s1", "b1", "Amina", 9, "", true, time.Now()).
		AddRow("s2", "b1", "Babul", 9, "", true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE batch_id = ? AND active = ? ORDER BY id")).
		WithArgs("b1", true).
		WillReturnRows(rows)

	students, err := repo.ListByBatch(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
