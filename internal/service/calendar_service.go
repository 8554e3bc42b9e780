package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/models"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
)

const dateLayout = "2006-01-02"

type holidayRepository interface {
	Create(ctx context.Context, holiday *models.Holiday) error
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error)
}

// CreateHolidayRequest describes a calendar exclusion.
type CreateHolidayRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Title string `json:"title" validate:"required,max=120"`
}

// CalendarService answers which days of a period count as working days.
type CalendarService struct {
	repo      holidayRepository
	weekend   map[time.Weekday]struct{}
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service. weekendDays are never working days.
func NewCalendarService(repo holidayRepository, weekendDays []time.Weekday, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	weekend := make(map[time.Weekday]struct{}, len(weekendDays))
	for _, d := range weekendDays {
		weekend[d] = struct{}{}
	}
	return &CalendarService{repo: repo, weekend: weekend, validator: validate, logger: logger}
}

// WorkingDays returns every day in period that is neither a weekend day nor a holiday, ascending.
func (s *CalendarService) WorkingDays(ctx context.Context, period models.Period) ([]time.Time, error) {
	if period.End.Before(period.Start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period end precedes start")
	}
	holidays, err := s.repo.ListBetween(ctx, period.Start, period.End)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load holidays")
	}
	closed := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		closed[models.TruncateDay(h.Date)] = struct{}{}
	}

	var days []time.Time
	for day := models.TruncateDay(period.Start); !day.After(period.End); day = day.AddDate(0, 0, 1) {
		if _, off := s.weekend[day.Weekday()]; off {
			continue
		}
		if _, off := closed[day]; off {
			continue
		}
		days = append(days, day)
	}
	return days, nil
}

// IsWorkingDay reports whether day is a working day.
func (s *CalendarService) IsWorkingDay(ctx context.Context, day time.Time) (bool, error) {
	d := models.TruncateDay(day)
	days, err := s.WorkingDays(ctx, models.Period{Start: d, End: d})
	if err != nil {
		return false, err
	}
	return len(days) == 1, nil
}

// CreateHoliday records a holiday.
func (s *CalendarService) CreateHoliday(ctx context.Context, req CreateHolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, _ := time.Parse(dateLayout, req.Date)
	holiday := &models.Holiday{Date: date, Title: req.Title}
	if err := s.repo.Create(ctx, holiday); err != nil {
		return nil, appErrors.Internal(err, "failed to create holiday")
	}
	s.logger.Info("holiday created", zap.String("date", req.Date), zap.String("title", req.Title))
	return holiday, nil
}

// ListHolidays returns holidays within period.
func (s *CalendarService) ListHolidays(ctx context.Context, period models.Period) ([]models.Holiday, error) {
	holidays, err := s.repo.ListBetween(ctx, period.Start, period.End)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list holidays")
	}
	return holidays, nil
}
