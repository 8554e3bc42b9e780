package dto

import "time"

// GenerationTicket acknowledges an asynchronous generation request.
type GenerationTicket struct {
	JobID    string    `json:"job_id"`
	BatchID  string    `json:"batch_id"`
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Status   string    `json:"status"`
	Enqueued time.Time `json:"enqueued_at"`
}

// BatchRunSummary reports a generation sweep over every batch.
type BatchRunSummary struct {
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Generated []string `json:"generated"`
	Skipped   []string `json:"skipped"`
	Failed    []string `json:"failed"`
}
