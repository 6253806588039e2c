// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteForecast prints a forecast using the configured output format.
func (ow *OutWriter) WriteForecast(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	return PrintForecast(result, cfg, duration)
}

// WriteRecommendations prints recommendations using the configured output format.
func (ow *OutWriter) WriteRecommendations(result schema.RecommendationResult, cfg *contract.Config, duration time.Duration) error {
	return PrintRecommendations(result, cfg, duration)
}

// WriteClassification prints an image classification using the configured output format.
func (ow *OutWriter) WriteClassification(result schema.ClassificationResult, cfg *contract.Config, duration time.Duration) error {
	return PrintClassification(result, cfg, duration)
}

// WriteChart prints a rendered series using the configured output format.
func (ow *OutWriter) WriteChart(points []schema.DataPoint, cfg *contract.Config) error {
	return PrintChart(points, cfg)
}

// WriteStatus prints the store status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.ServiceStatus, cfg *contract.Config) error {
	return PrintStatus(status, cfg)
}

// WriteHistory prints recorded submissions using the configured output format.
func (ow *OutWriter) WriteHistory(records []schema.SubmissionRecord, cfg *contract.Config) error {
	return PrintHistory(records, cfg)
}

// WriteCatalog prints the selectable departments, stores and customers.
func (ow *OutWriter) WriteCatalog(catalog schema.Catalog, cfg *contract.Config) error {
	return PrintCatalog(catalog, cfg)
}

// ChartOptions maps the configured chart geometry to renderer options.
// defaultHighlight applies when the highlight window is automatic.
func ChartOptions(cfg *contract.Config, defaultHighlight int) chart.Options {
	opts := chart.DefaultOptions()
	if cfg.ChartWidth > 0 {
		opts.Width = cfg.ChartWidth
	}
	if cfg.ChartHeight > 0 {
		opts.Height = cfg.ChartHeight
	}
	if cfg.Curve != "" {
		opts.Curve = cfg.Curve
	}
	opts.Highlight = cfg.HighlightOr(defaultHighlight)
	return opts
}
