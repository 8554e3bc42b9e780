package models

import (
	"fmt"
	"time"
)

// MonthlyResult is the derived result of one student for a (batch, year, month) cohort.
// ClassRank is only meaningful relative to the cohort it was computed with.
type MonthlyResult struct {
	ID                         string  `db:"id" json:"id"`
	StudentID                  string  `db:"student_id" json:"student_id"`
	StudentName                string  `db:"student_name" json:"student_name,omitempty"`
	BatchID                    string  `db:"batch_id" json:"batch_id"`
	Year                       int     `db:"year" json:"year"`
	Month                      int     `db:"month" json:"month"`
	ExamComponentPercent       float64 `db:"exam_component_percent" json:"exam_component_percent"`
	AttendanceComponentPercent float64 `db:"attendance_component_percent" json:"attendance_component_percent"`
	BonusPercent               float64 `db:"bonus_percent" json:"bonus_percent"`
	FinalPercent               float64 `db:"final_percent" json:"final_percent"`
	GPA                        float64 `db:"gpa" json:"gpa"`
	LetterGrade                string  `db:"letter_grade" json:"letter_grade"`
	GradeDescription           string  `db:"grade_description" json:"grade_description"`
	ClassRank                  int     `db:"class_rank" json:"class_rank"`
	ExamsCounted               int     `db:"exams_counted" json:"exams_counted"`
	DaysPresent                int     `db:"days_present" json:"days_present"`
	WorkingDays                int     `db:"working_days" json:"working_days"`
}

// MonthlyResultSet is the full, ranked result of one cohort.
type MonthlyResultSet struct {
	BatchID     string          `json:"batch_id"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	WorkingDays int             `json:"working_days"`
	GeneratedAt time.Time       `json:"generated_at"`
	Results     []MonthlyResult `json:"results"`
}

// MonthlyResultRun records when a cohort was last generated.
type MonthlyResultRun struct {
	BatchID     string    `db:"batch_id" json:"batch_id"`
	Year        int       `db:"year" json:"year"`
	Month       int       `db:"month" json:"month"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
}

// CohortKey identifies a (batch, year, month) cohort.
type CohortKey struct {
	BatchID string `json:"batch_id"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

// String renders the key as batch:YYYY-MM.
func (k CohortKey) String() string {
	return fmt.Sprintf("%s:%04d-%02d", k.BatchID, k.Year, k.Month)
}
