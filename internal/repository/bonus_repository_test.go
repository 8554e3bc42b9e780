package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonusRepositoryGetDefaultsToZero(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBonusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT bonus_percent FROM monthly_bonuses")).
		WithArgs("s1", "b1", 2024, 5).
		WillReturnError(sql.ErrNoRows)

	bonus, err := repo.Get(context.Background(), "s1", "b1", 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, bonus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBonusRepositoryGetPropagatesFailures(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBonusRepository(db)

	mock.ExpectQuery("SELECT bonus_percent").WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "s1", "b1", 2024, 5)
	require.Error(t, err)
}

func TestBonusRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBonusRepository(db)

	mock.ExpectQuery("SELECT bonus_percent").
		WillReturnRows(sqlmock.NewRows([]string{"bonus_percent"}).AddRow(7.5))

	bonus, err := repo.Get(context.Background(), "s1", "b1", 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 7.5, bonus)
}
