package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/grading"
	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type bonusRepository interface {
	Upsert(ctx context.Context, bonus *models.MonthlyBonus) error
	Get(ctx context.Context, studentID, batchID string, year, month int) (float64, error)
}

// SetBonusRequest assigns a discretionary bonus for one student and period.
type SetBonusRequest struct {
	StudentID    string  `json:"student_id" validate:"required"`
	BatchID      string  `json:"batch_id" validate:"required"`
	Year         int     `json:"year" validate:"min=2000,max=2100"`
	Month        int     `json:"month" validate:"min=1,max=12"`
	BonusPercent float64 `json:"bonus_percent"`
}

// BonusService stores teacher-entered bonus percentages.
type BonusService struct {
	repo      bonusRepository
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBonusService constructs the service.
func NewBonusService(repo bonusRepository, students studentRepository, validate *validator.Validate, logger *zap.Logger) *BonusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BonusService{repo: repo, students: students, validator: validate, logger: logger}
}

// Set validates and stores the bonus. Values outside [0,100] are rejected, not clamped.
func (s *BonusService) Set(ctx context.Context, req SetBonusRequest) (*models.MonthlyBonus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bonus payload")
	}
	if err := grading.ValidatePercentage(req.BonusPercent); err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	if student.BatchID != req.BatchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is not enrolled in the batch")
	}

	bonus := &models.MonthlyBonus{
		StudentID:    req.StudentID,
		BatchID:      req.BatchID,
		Year:         req.Year,
		Month:        req.Month,
		BonusPercent: req.BonusPercent,
	}
	if err := s.repo.Upsert(ctx, bonus); err != nil {
		return nil, appErrors.Internal(err, "failed to store bonus")
	}
	return bonus, nil
}
