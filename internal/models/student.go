package models

import "time"

// Student is a learner enrolled in one batch.
type Student struct {
	ID         string    `db:"id" json:"id"`
	BatchID    string    `db:"batch_id" json:"batch_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	ClassLevel int       `db:"class_level" json:"class_level"`
	Phone      string    `db:"phone" json:"phone"`
	Active     bool      `db:"active" json:"active"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}
