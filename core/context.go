package core

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Context keys for submission options
type contextKey string

const (
	loggerKey contextKey = "logger"
	bypassKey contextKey = "bypassCache"
)

// discardLogger is used when the caller attached no logger.
var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// WithLogger attaches a logger that the flows use to report submission outcomes.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, entry)
}

// loggerFrom returns the attached logger, or one that discards everything.
func loggerFrom(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return logrus.NewEntry(discardLogger)
}

// WithCacheBypass makes the flows skip cache lookups. Fresh responses are still stored.
func WithCacheBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey, true)
}

// shouldBypassCache returns whether cache lookups are disabled from context
func shouldBypassCache(ctx context.Context) bool {
	val := ctx.Value(bypassKey)
	if val == nil {
		return false // default: use the cache
	}
	bypass, ok := val.(bool)
	return ok && bypass
}
