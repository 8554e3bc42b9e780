package models

import "time"

// MonthlyBonus is a teacher-entered discretionary percentage for one student and period.
type MonthlyBonus struct {
	StudentID    string    `db:"student_id" json:"student_id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	Year         int       `db:"year" json:"year"`
	Month        int       `db:"month" json:"month"`
	BonusPercent float64   `db:"bonus_percent" json:"bonus_percent"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
