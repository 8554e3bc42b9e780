package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

// ExamRepository persists exams and is the exam-score provider.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// Create inserts an exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO exams (id, batch_id, title, exam_date, total_marks, created_at)
        VALUES (:id, :batch_id, :title, :exam_date, :total_marks, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// FindByID returns an exam or sql.ErrNoRows.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	var exam models.Exam
	query := r.db.Rebind(`SELECT id, batch_id, title, exam_date, total_marks, created_at FROM exams WHERE id = ?`)
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// UpsertScores stores submissions atomically, replacing an earlier submission of the
// same student for the same exam.
func (r *ExamRepository) UpsertScores(ctx context.Context, scores []models.ExamScore) error {
	if len(scores) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO exam_scores (id, exam_id, student_id, marks_obtained, total_marks, submitted_at)
        VALUES (:id, :exam_id, :student_id, :marks_obtained, :total_marks, :submitted_at)
        ON CONFLICT (exam_id, student_id)
        DO UPDATE SET marks_obtained = EXCLUDED.marks_obtained, total_marks = EXCLUDED.total_marks, submitted_at = EXCLUDED.submitted_at`
	now := time.Now().UTC()
	for i := range scores {
		if scores[i].ID == "" {
			scores[i].ID = uuid.NewString()
		}
		if scores[i].SubmittedAt.IsZero() {
			scores[i].SubmittedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, scores[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert exam score: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exam scores: %w", err)
	}
	return nil
}

// ListScoresByStudent returns the student's scores for exams dated within [start, end].
func (r *ExamRepository) ListScoresByStudent(ctx context.Context, studentID string, start, end time.Time) ([]models.ExamScore, error) {
	var scores []models.ExamScore
	query := r.db.Rebind(`SELECT es.id, es.exam_id, es.student_id, es.marks_obtained, es.total_marks, es.submitted_at
        FROM exam_scores es
        JOIN exams e ON e.id = es.exam_id
        WHERE es.student_id = ? AND e.exam_date >= ? AND e.exam_date <= ?
        ORDER BY e.exam_date, es.exam_id`)
	if err := r.db.SelectContext(ctx, &scores, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list exam scores: %w", err)
	}
	return scores, nil
}
