package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

// HolidayRepository persists academic-calendar exclusions.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// Create inserts a holiday.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	const query = `INSERT INTO holidays (id, date, title) VALUES (:id, :date, :title)`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// ListBetween returns holidays dated within [start, end].
func (r *HolidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	var holidays []models.Holiday
	query := r.db.Rebind(`SELECT id, date, title FROM holidays WHERE date >= ? AND date <= ? ORDER BY date`)
	if err := r.db.SelectContext(ctx, &holidays, query, start, end); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}
