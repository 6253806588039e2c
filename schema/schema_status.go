package schema

import "time"

// CacheStatus represents the status of the response cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the submission history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalSubmissions  int              `json:"total_submissions"`
	FailedSubmissions int              `json:"failed_submissions"`
	LastSubmissionID  int64            `json:"last_submission_id"`
	LastSubmission    time.Time        `json:"last_submission_time"`
	OldestSubmission  time.Time        `json:"oldest_submission_time"`
	ByForm            map[FormKind]int `json:"by_form"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// ServiceStatus is the combined status reported by the web server.
type ServiceStatus struct {
	Version string        `json:"version"`
	Cache   CacheStatus   `json:"cache"`
	History HistoryStatus `json:"history"`
}
