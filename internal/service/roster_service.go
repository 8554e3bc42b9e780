package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type batchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	List(ctx context.Context) ([]models.Batch, error)
}

type studentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Student, error)
}

// CreateBatchRequest describes a new batch.
type CreateBatchRequest struct {
	Name       string `json:"name" validate:"required,max=80"`
	ClassLevel int    `json:"class_level" validate:"required,min=1,max=12"`
}

// EnrollStudentRequest describes a student joining a batch.
type EnrollStudentRequest struct {
	FullName string `json:"full_name" validate:"required,max=120"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// RosterService manages batches and their enrolled students.
type RosterService struct {
	batches   batchRepository
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs the service.
func NewRosterService(batches batchRepository, students studentRepository, validate *validator.Validate, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{batches: batches, students: students, validator: validate, logger: logger}
}

// CreateBatch stores a batch.
func (s *RosterService) CreateBatch(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	batch := &models.Batch{Name: req.Name, ClassLevel: req.ClassLevel}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, appErrors.Internal(err, "failed to create batch")
	}
	return batch, nil
}

// ListBatches returns every batch.
func (s *RosterService) ListBatches(ctx context.Context) ([]models.Batch, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list batches")
	}
	return batches, nil
}

// GetBatch returns a batch or ErrNotFound.
func (s *RosterService) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Internal(err, "failed to load batch")
	}
	return batch, nil
}

// Enroll adds an active student to the batch. The student inherits the batch class level.
func (s *RosterService) Enroll(ctx context.Context, batchID string, req EnrollStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		BatchID:    batch.ID,
		FullName:   req.FullName,
		ClassLevel: batch.ClassLevel,
		Phone:      req.Phone,
		Active:     true,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to enroll student")
	}
	s.logger.Info("student enrolled", zap.String("student_id", student.ID), zap.String("batch_id", batch.ID))
	return student, nil
}

// ListStudents returns the active roster of a batch.
func (s *RosterService) ListStudents(ctx context.Context, batchID string) ([]models.Student, error) {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return nil, err
	}
	students, err := s.students.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	return students, nil
}
