package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

const studentColumns = `id, batch_id, full_name, class_level, phone, active, enrolled_at`

// StudentRepository is the roster provider.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create enrolls a student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.EnrolledAt.IsZero() {
		student.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (` + studentColumns + `)
        VALUES (:id, :batch_id, :full_name, :class_level, :phone, :active, :enrolled_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByID returns a student or sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	query := r.db.Rebind(`SELECT ` + studentColumns + ` FROM students WHERE id = ?`)
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListByBatch returns the active roster of a batch ordered by id.
func (r *StudentRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Student, error) {
	var students []models.Student
	query := r.db.Rebind(`SELECT ` + studentColumns + ` FROM students WHERE batch_id = ? AND active = ? ORDER BY id`)
	if err := r.db.SelectContext(ctx, &students, query, batchID, true); err != nil {
		return nil, fmt.Errorf("list students by batch: %w", err)
	}
	return students, nil
}
