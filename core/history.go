package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
	"github.com/sirupsen/logrus"
)

// recordSubmission logs the outcome of a submission and stores it in the history store
// when one is configured. Recording failures are logged, never returned.
func recordSubmission(ctx context.Context, mgr contract.CacheManager, form schema.FormKind, key string, start time.Time, cached bool, err error) {
	sub := schema.Submission{
		Form:       form,
		RequestKey: key,
		Status:     schema.SubmissionOK,
		Duration:   time.Since(start),
		CreatedAt:  start.UTC(),
		Cached:     cached,
	}
	log := loggerFrom(ctx).WithFields(logrus.Fields{
		"form":     form,
		"duration": sub.Duration,
		"cached":   cached,
	})
	if err != nil {
		sub.Status = schema.SubmissionFailed
		sub.Reason = string(contract.Capture(struct{}{}, err).Reason())
		log.WithField("reason", sub.Reason).WithError(err).Warn("submission failed")
	} else {
		log.Info("submission completed")
	}

	if mgr == nil {
		return
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return
	}
	if _, recErr := history.RecordSubmission(sub); recErr != nil {
		loggerFrom(ctx).WithError(recErr).Warn("failed to record submission")
	}
}

var errHistoryDisabled = errors.New("history storage is not configured. Set --history-backend to enable it")
