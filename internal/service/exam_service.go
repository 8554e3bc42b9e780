package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type examRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	UpsertScores(ctx context.Context, scores []models.ExamScore) error
}

// CreateExamRequest describes an exam held for a batch.
type CreateExamRequest struct {
	BatchID    string  `json:"batch_id" validate:"required"`
	Title      string  `json:"title" validate:"required,max=120"`
	ExamDate   string  `json:"exam_date" validate:"required,datetime=2006-01-02"`
	TotalMarks float64 `json:"total_marks" validate:"gt=0"`
}

// ScoreEntry is one student's marks in a bulk submission.
type ScoreEntry struct {
	StudentID     string  `json:"student_id" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
}

// SubmitScoresRequest records marks for several students at once.
type SubmitScoresRequest struct {
	Scores []ScoreEntry `json:"scores" validate:"required,min=1,dive"`
}

// ExamService manages exams and their scores.
type ExamService struct {
	exams     examRepository
	batches   batchRepository
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs the service.
func NewExamService(exams examRepository, batches batchRepository, students studentRepository, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{exams: exams, batches: batches, students: students, validator: validate, logger: logger}
}

// CreateExam stores an exam for an existing batch.
func (s *ExamService) CreateExam(ctx context.Context, req CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	if _, err := s.batches.FindByID(ctx, req.BatchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Internal(err, "failed to load batch")
	}
	date, _ := time.Parse(dateLayout, req.ExamDate)
	exam := &models.Exam{BatchID: req.BatchID, Title: req.Title, ExamDate: date, TotalMarks: req.TotalMarks}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, appErrors.Internal(err, "failed to create exam")
	}
	return exam, nil
}

// SubmitScores upserts marks for an exam. Every entry must satisfy 0 <= marks <= total and
// reference a student of the exam's batch; otherwise nothing is written.
func (s *ExamService) SubmitScores(ctx context.Context, examID string, req SubmitScoresRequest) ([]models.ExamScore, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Internal(err, "failed to load exam")
	}

	seen := make(map[string]struct{}, len(req.Scores))
	scores := make([]models.ExamScore, 0, len(req.Scores))
	for _, entry := range req.Scores {
		if entry.MarksObtained > exam.TotalMarks {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("marks for student %s exceed exam total %.2f", entry.StudentID, exam.TotalMarks))
		}
		if _, dup := seen[entry.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate score for student %s", entry.StudentID))
		}
		seen[entry.StudentID] = struct{}{}
		if err := s.ensureEnrolled(ctx, entry.StudentID, exam.BatchID); err != nil {
			return nil, err
		}
		scores = append(scores, models.ExamScore{
			ExamID:        exam.ID,
			StudentID:     entry.StudentID,
			MarksObtained: entry.MarksObtained,
			TotalMarks:    exam.TotalMarks,
		})
	}

	if err := s.exams.UpsertScores(ctx, scores); err != nil {
		return nil, appErrors.Internal(err, "failed to store scores")
	}
	s.logger.Info("exam scores stored", zap.String("exam_id", exam.ID), zap.Int("count", len(scores)))
	return scores, nil
}

func (s *ExamService) ensureEnrolled(ctx context.Context, studentID, batchID string) error {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return appErrors.Internal(err, "failed to load student")
	}
	if student.BatchID != batchID {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not enrolled in batch %s", studentID, batchID))
	}
	return nil
}
