package web

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/huangsam/storecast/core"
	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
	"github.com/huangsam/storecast/internal/outwriter"
	"github.com/huangsam/storecast/schema"
)

// maxSeriesBytes bounds the JSON body accepted by the chart endpoint.
const maxSeriesBytes = 4 << 20

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w nethttp.ResponseWriter, code int, message string, reason contract.FailureReason) {
	body := map[string]any{"error": message}
	if reason != "" {
		body["reason"] = reason
	}
	writeJSON(w, code, body)
}

func healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

// readyHandler reports whether the stores answer and which endpoints are configured.
func readyHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		endpoints := map[string]bool{
			"forecast":       d.cfg.ForecastURL != "",
			"recommendation": d.cfg.RecommendURL != "",
			"classification": d.cfg.ClassifyURL != "",
		}
		if _, err := iocache.CollectStatus(d.mgr, d.version); err != nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"status":    "unavailable",
				"error":     err.Error(),
				"endpoints": endpoints,
			})
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"status":    "ready",
			"endpoints": endpoints,
		})
	}
}

func statusHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		status, err := iocache.CollectStatus(d.mgr, d.version)
		if err != nil {
			writeError(w, nethttp.StatusServiceUnavailable, err.Error(), "")
			return
		}
		writeJSON(w, nethttp.StatusOK, status)
	}
}

// queryInt parses an optional integer query parameter.
func queryInt(r *nethttp.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// chartAPIHandler renders a posted series as SVG. Query parameters override the configured geometry.
func chartAPIHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		opts := outwriter.ChartOptions(d.cfg, schema.DefaultChartHighlight)
		var err error
		if opts.Width, err = queryInt(r, "width", opts.Width); err == nil {
			if opts.Height, err = queryInt(r, "height", opts.Height); err == nil {
				opts.Highlight, err = queryInt(r, "highlight", opts.Highlight)
			}
		}
		if err != nil {
			writeError(w, nethttp.StatusBadRequest, err.Error(), contract.ReasonInvalidInput)
			return
		}
		if curve := r.URL.Query().Get("curve"); curve != "" {
			opts.Curve = schema.CurveMode(curve)
		}

		var points []schema.DataPoint
		if err := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxSeriesBytes)).Decode(&points); err != nil {
			writeError(w, nethttp.StatusBadRequest, fmt.Sprintf("invalid series: %v", err), contract.ReasonInvalidInput)
			return
		}
		points, err = core.PrepareSeries(points)
		if err != nil {
			writeError(w, nethttp.StatusBadRequest, err.Error(), contract.ReasonInvalidInput)
			return
		}

		drawing, err := chart.Render(points, opts)
		if err != nil {
			writeError(w, nethttp.StatusBadRequest, err.Error(), contract.ReasonInvalidInput)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(nethttp.StatusOK)
		_ = drawing.WriteSVG(w)
	}
}

// forecastAPIHandler returns the forecast for a posted selection as JSON.
// refresh=true skips the cache lookup.
func forecastAPIHandler(d *deps) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req schema.ForecastRequest
		if err := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeError(w, nethttp.StatusBadRequest, fmt.Sprintf("invalid request: %v", err), contract.ReasonInvalidInput)
			return
		}
		if !d.cfg.Catalog.HasDepartment(req.Department) || !d.cfg.Catalog.HasStore(req.Store) {
			writeError(w, nethttp.StatusBadRequest, msgSelectSeries, contract.ReasonInvalidInput)
			return
		}

		ctx := core.WithLogger(r.Context(), d.requestLogger(r))
		if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
			ctx = core.WithCacheBypass(ctx)
		}
		result, err := core.Forecast(ctx, d.cfg, d.client, d.mgr, req)
		if err != nil {
			writeError(w, failureStatus(err), contract.UserMessage, contract.ReasonOf(err))
			return
		}
		writeJSON(w, nethttp.StatusOK, result)
	}
}
