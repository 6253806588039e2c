// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/storecast/schema"
)

// PredictionClient defines the outbound calls to the prediction endpoints.
// This allows the form flows to be tested without a live endpoint.
type PredictionClient interface {
	// Forecast returns the raw prediction records for one department and store.
	Forecast(ctx context.Context, req schema.ForecastRequest) ([]schema.PredictionRecord, error)

	// Recommend returns the products recommended after the given purchase.
	Recommend(ctx context.Context, lastPurchase string) ([]schema.RecommendationItem, error)

	// Classify returns the label assigned to an uploaded image.
	Classify(ctx context.Context, fileName string, body []byte) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking form submissions.
type HistoryStore interface {
	// RecordSubmission stores one completed submission and returns its ID
	RecordSubmission(sub schema.Submission) (int64, error)

	// ListSubmissions returns the most recent submissions, newest first
	ListSubmissions(limit int) ([]schema.SubmissionRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
