package models

import "time"

// Exam is a test held for a batch on a given date.
type Exam struct {
	ID         string    `db:"id" json:"id"`
	BatchID    string    `db:"batch_id" json:"batch_id"`
	Title      string    `db:"title" json:"title"`
	ExamDate   time.Time `db:"exam_date" json:"exam_date"`
	TotalMarks float64   `db:"total_marks" json:"total_marks"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ExamScore is one student's submission for an exam. It is written once per
// (exam, student) and overwritten only by a re-submission.
type ExamScore struct {
	ID            string    `db:"id" json:"id"`
	ExamID        string    `db:"exam_id" json:"exam_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	MarksObtained float64   `db:"marks_obtained" json:"marks_obtained"`
	TotalMarks    float64   `db:"total_marks" json:"total_marks"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}
