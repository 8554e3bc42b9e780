package models

import "time"

// Batch is a group of students taught and ranked together.
type Batch struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	ClassLevel int       `db:"class_level" json:"class_level"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
