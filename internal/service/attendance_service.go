package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

type attendanceRepository interface {
	UpsertMany(ctx context.Context, records []models.AttendanceRecord) error
	ListByStudent(ctx context.Context, studentID string, start, end time.Time) ([]models.AttendanceRecord, error)
}

type workingDayCalendar interface {
	WorkingDays(ctx context.Context, period models.Period) ([]time.Time, error)
	IsWorkingDay(ctx context.Context, day time.Time) (bool, error)
}

// AttendanceEntry marks one student.
type AttendanceEntry struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

// MarkAttendanceRequest records a batch's attendance for one day.
type MarkAttendanceRequest struct {
	BatchID string            `json:"batch_id" validate:"required"`
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceService records attendance and reports it against the working-day calendar.
type AttendanceService struct {
	repo      attendanceRepository
	students  studentRepository
	calendar  workingDayCalendar
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, students studentRepository, calendar workingDayCalendar, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, calendar: calendar, validator: validate, logger: logger}
}

// Mark stores attendance for the listed students. Non-working days and students outside
// the batch are rejected before anything is written.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	day, _ := time.Parse(dateLayout, req.Date)
	working, err := s.calendar.IsWorkingDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if !working {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a working day", req.Date))
	}

	roster, err := s.students.ListByBatch(ctx, req.BatchID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load roster")
	}
	enrolled := make(map[string]struct{}, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = struct{}{}
	}

	records := make([]models.AttendanceRecord, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if _, ok := enrolled[entry.StudentID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %s is not enrolled in batch %s", entry.StudentID, req.BatchID))
		}
		records = append(records, models.AttendanceRecord{StudentID: entry.StudentID, Date: day, Present: entry.Present})
	}
	if err := s.repo.UpsertMany(ctx, records); err != nil {
		return nil, appErrors.Internal(err, "failed to store attendance")
	}
	return records, nil
}

// WorkingDayAttendance returns the days a student was present, counting only days in
// workingDays. Duplicate marks for one day count once.
func (s *AttendanceService) WorkingDayAttendance(ctx context.Context, studentID string, period models.Period, workingDays []time.Time) (int, error) {
	records, err := s.repo.ListByStudent(ctx, studentID, period.Start, period.End)
	if err != nil {
		return 0, err
	}
	return countPresent(records, workingDays), nil
}

func countPresent(records []models.AttendanceRecord, workingDays []time.Time) int {
	working := make(map[time.Time]struct{}, len(workingDays))
	for _, d := range workingDays {
		working[models.TruncateDay(d)] = struct{}{}
	}
	present := make(map[time.Time]struct{})
	for _, rec := range records {
		if !rec.Present {
			continue
		}
		day := models.TruncateDay(rec.Date)
		if _, ok := working[day]; ok {
			present[day] = struct{}{}
		}
	}
	return len(present)
}
