package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahidx/saroyar-sub004/internal/dto"
	"github.com/sahidx/saroyar-sub004/internal/models"
	"github.com/sahidx/saroyar-sub004/internal/service"
	appErrors "github.com/sahidx/saroyar-sub004/pkg/errors"
	"github.com/sahidx/saroyar-sub004/pkg/response"
)

const dateLayout = "2006-01-02"

// CalendarHandler exposes holidays and working days.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// Holidays godoc
// @Summary List holidays in a date range
// @Tags Calendar
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/holidays [get]
func (h *CalendarHandler) Holidays(c *gin.Context) {
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	holidays, err := h.calendar.ListHolidays(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays)
}

// CreateHoliday godoc
// @Summary Add a holiday
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body service.CreateHolidayRequest true "Holiday"
// @Success 201 {object} response.Envelope
// @Router /calendar/holidays [post]
func (h *CalendarHandler) CreateHoliday(c *gin.Context) {
	var req service.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	holiday, err := h.calendar.CreateHoliday(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// WorkingDays godoc
// @Summary List working days in a date range
// @Tags Calendar
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/working-days [get]
func (h *CalendarHandler) WorkingDays(c *gin.Context) {
	period, err := periodFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	days, err := h.calendar.WorkingDays(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := dto.WorkingDaysResponse{
		From:  period.Start.Format(dateLayout),
		To:    period.End.Format(dateLayout),
		Count: len(days),
		Days:  make([]string, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, d.Format(dateLayout))
	}
	response.JSON(c, http.StatusOK, out)
}

func periodFromQuery(c *gin.Context) (models.Period, error) {
	from, errFrom := time.Parse(dateLayout, c.Query("from"))
	to, errTo := time.Parse(dateLayout, c.Query("to"))
	if errFrom != nil || errTo != nil {
		return models.Period{}, appErrors.Clone(appErrors.ErrValidation, "from and to must be YYYY-MM-DD dates")
	}
	if to.Before(from) {
		return models.Period{}, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}
	if to.Sub(from) > 366*24*time.Hour {
		return models.Period{}, appErrors.Clone(appErrors.ErrValidation, "range must not exceed one year")
	}
	return models.Period{Start: from, End: to}, nil
}
