package models

import "time"

// Holiday excludes a date from the academic working days.
type Holiday struct {
	ID    string    `db:"id" json:"id"`
	Date  time.Time `db:"date" json:"date"`
	Title string    `db:"title" json:"title"`
}

// Period is an inclusive date range [Start, End] truncated to days in UTC.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthPeriod returns the first and last day of year/month.
func MonthPeriod(year, month int) Period {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether day falls within the period.
func (p Period) Contains(day time.Time) bool {
	d := TruncateDay(day)
	return !d.Before(p.Start) && !d.After(p.End)
}

// TruncateDay drops the time-of-day and normalises to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
