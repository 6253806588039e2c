package web

import (
	nethttp "net/http"
	"runtime/debug"
	"time"

	"github.com/huangsam/storecast/internal/contract"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	nethttp.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logrus.Logger, next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// recoveryMiddleware turns a handler panic into a 500 with the uniform user message.
func recoveryMiddleware(logger *logrus.Logger, next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.WithFields(logrus.Fields{
					"path":  r.URL.Path,
					"panic": v,
					"stack": string(debug.Stack()),
				}).Error("handler panicked")
				nethttp.Error(w, contract.UserMessage, nethttp.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
