package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

// AttendanceRepository persists daily attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// UpsertMany marks attendance atomically; re-marking a day overwrites the earlier mark.
func (r *AttendanceRepository) UpsertMany(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO attendance_records (id, student_id, date, present)
        VALUES (:id, :student_id, :date, :present)
        ON CONFLICT (student_id, date) DO UPDATE SET present = EXCLUDED.present`
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

// ListByStudent returns all attendance rows of the student dated within [start, end].
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string, start, end time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	query := r.db.Rebind(`SELECT id, student_id, date, present FROM attendance_records
        WHERE student_id = ? AND date >= ? AND date <= ? ORDER BY date`)
	if err := r.db.SelectContext(ctx, &records, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}
