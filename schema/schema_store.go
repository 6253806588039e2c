package schema

import "time"

// Submission is a completed form submission, ready to be recorded.
type Submission struct {
	Form       FormKind
	RequestKey string
	Status     SubmissionStatus
	Reason     string // failure reason, empty on success
	Duration   time.Duration
	CreatedAt  time.Time
	Cached     bool
}

// SubmissionRecord represents a row from the storecast_submissions table.
type SubmissionRecord struct {
	SubmissionID int64     `json:"submission_id"`
	Form         FormKind  `json:"form"`
	RequestKey   string    `json:"request_key"`
	Status       string    `json:"status"`
	Reason       *string   `json:"reason,omitempty"`
	DurationMs   int32     `json:"duration_ms"`
	Cached       bool      `json:"cached"`
	CreatedAt    time.Time `json:"created_at"`
}
