package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sahidx/saroyar-sub004/internal/models"
)

const monthlyResultColumns = `id, student_id, batch_id, year, month, exam_component_percent, attendance_component_percent,
        bonus_percent, final_percent, gpa, letter_grade, grade_description, class_rank, exams_counted, days_present, working_days`

// monthlyResultNamespace seeds the name-based ids of result rows.
var monthlyResultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:coaching-center:monthly-result"))

// MonthlyResultID is stable for a (cohort, student) pair so regenerating a period rewrites
// identical rows.
func MonthlyResultID(batchID string, year, month int, studentID string) string {
	name := fmt.Sprintf("%s:%04d-%02d:%s", batchID, year, month, studentID)
	return uuid.NewSHA1(monthlyResultNamespace, []byte(name)).String()
}

// MonthlyResultRepository is the result sink and reader.
type MonthlyResultRepository struct {
	db *sqlx.DB
}

// NewMonthlyResultRepository constructs the repository.
func NewMonthlyResultRepository(db *sqlx.DB) *MonthlyResultRepository {
	return &MonthlyResultRepository{db: db}
}

// Replace overwrites every stored result of the cohort in one transaction, so readers
// never observe a half-written result set.
func (r *MonthlyResultRepository) Replace(ctx context.Context, run models.MonthlyResultRun, results []models.MonthlyResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.replace(ctx, tx, run, results); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit monthly results: %w", err)
	}
	return nil
}

func (r *MonthlyResultRepository) replace(ctx context.Context, tx *sqlx.Tx, run models.MonthlyResultRun, results []models.MonthlyResult) error {
	deleteResults := tx.Rebind(`DELETE FROM monthly_results WHERE batch_id = ? AND year = ? AND month = ?`)
	if _, err := tx.ExecContext(ctx, deleteResults, run.BatchID, run.Year, run.Month); err != nil {
		return fmt.Errorf("delete monthly results: %w", err)
	}
	deleteRun := tx.Rebind(`DELETE FROM monthly_result_runs WHERE batch_id = ? AND year = ? AND month = ?`)
	if _, err := tx.ExecContext(ctx, deleteRun, run.BatchID, run.Year, run.Month); err != nil {
		return fmt.Errorf("delete monthly result run: %w", err)
	}
	const insertRun = `INSERT INTO monthly_result_runs (batch_id, year, month, generated_at)
        VALUES (:batch_id, :year, :month, :generated_at)`
	if _, err := tx.NamedExecContext(ctx, insertRun, run); err != nil {
		return fmt.Errorf("insert monthly result run: %w", err)
	}
	const insertResult = `INSERT INTO monthly_results (` + monthlyResultColumns + `)
        VALUES (:id, :student_id, :batch_id, :year, :month, :exam_component_percent, :attendance_component_percent,
        :bonus_percent, :final_percent, :gpa, :letter_grade, :grade_description, :class_rank, :exams_counted, :days_present, :working_days)`
	for i := range results {
		results[i].ID = MonthlyResultID(run.BatchID, run.Year, run.Month, results[i].StudentID)
		if _, err := tx.NamedExecContext(ctx, insertResult, results[i]); err != nil {
			return fmt.Errorf("insert monthly result: %w", err)
		}
	}
	return nil
}

// GetRun returns the generation header of a cohort or sql.ErrNoRows.
func (r *MonthlyResultRepository) GetRun(ctx context.Context, batchID string, year, month int) (*models.MonthlyResultRun, error) {
	var run models.MonthlyResultRun
	query := r.db.Rebind(`SELECT batch_id, year, month, generated_at FROM monthly_result_runs
        WHERE batch_id = ? AND year = ? AND month = ?`)
	if err := r.db.GetContext(ctx, &run, query, batchID, year, month); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListByCohort returns the cohort's results in rank order.
func (r *MonthlyResultRepository) ListByCohort(ctx context.Context, batchID string, year, month int) ([]models.MonthlyResult, error) {
	var results []models.MonthlyResult
	query := r.db.Rebind(`SELECT mr.id, mr.student_id, s.full_name AS student_name, mr.batch_id, mr.year, mr.month,
        mr.exam_component_percent, mr.attendance_component_percent, mr.bonus_percent, mr.final_percent, mr.gpa,
        mr.letter_grade, mr.grade_description, mr.class_rank, mr.exams_counted, mr.days_present, mr.working_days
        FROM monthly_results mr
        JOIN students s ON s.id = mr.student_id
        WHERE mr.batch_id = ? AND mr.year = ? AND mr.month = ?
        ORDER BY mr.class_rank, mr.student_id`)
	if err := r.db.SelectContext(ctx, &results, query, batchID, year, month); err != nil {
		return nil, fmt.Errorf("list monthly results: %w", err)
	}
	return results, nil
}

// ListByStudent returns a student's results, newest period first.
func (r *MonthlyResultRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]models.MonthlyResult, error) {
	if limit <= 0 || limit > 120 {
		limit = 12
	}
	var results []models.MonthlyResult
	query := r.db.Rebind(`SELECT ` + monthlyResultColumns + ` FROM monthly_results
        WHERE student_id = ? ORDER BY year DESC, month DESC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &results, query, studentID, limit); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}
