package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/parquet"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintForecast writes the forecast to the configured output file or stdout.
func PrintForecast(result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteForecast(w, result, cfg, duration)
	}, fmt.Sprintf("Wrote %s forecast", cfg.Output))
}

// WriteForecast writes the forecast to w, dispatching on the configured output format.
func WriteForecast(w io.Writer, result schema.ForecastResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, result); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeForecastCSV(w, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteForecastPoints(w, parquet.ConvertForecastResult(result)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.SVGOut, schema.PNGOut:
		opts := ChartOptions(cfg, schema.DefaultForecastHighlight)
		opts.Highlight = result.Highlight
		if err := writeImage(w, result.Points, opts, cfg.Output); err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	default:
		if err := writeForecastTable(w, result, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing forecast table output: %w", err)
		}
	}
	return nil
}

// windowRoles labels every point with the chart role it is drawn in.
func windowRoles(points []schema.DataPoint, highlight int) []chart.Role {
	normal, _ := chart.Partition(points, highlight)
	roles := make([]chart.Role, len(points))
	for i := range points {
		roles[i] = chart.NormalRole
		if i >= len(normal) {
			roles[i] = chart.HighlightedRole
		}
	}
	return roles
}

func writeForecastCSV(w io.Writer, result schema.ForecastResult, fmtFloat func(float64) string) error {
	roles := windowRoles(result.Points, result.Highlight)
	return writeCSVWithHeader(w, []string{"date", "sales", "role"}, func(cw *csv.Writer) error {
		for i, p := range result.Points {
			if err := cw.Write([]string{schema.FormatDate(p.Date), fmtFloat(p.Value), string(roles[i])}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeForecastTable(w io.Writer, result schema.ForecastResult, fmtFloat func(float64) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "Forecast for department %d, store %d\n", result.Department, result.Store)

	roles := windowRoles(result.Points, result.Highlight)
	rows := make([][]string, len(result.Points))
	for i, p := range result.Points {
		rows[i] = []string{schema.FormatDate(p.Date), fmtFloat(p.Value), string(roles[i])}
	}
	if err := renderTable(w, []string{"Date", "Sales", "Window"}, rows, tw.AlignRight); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Forecast completed in %v with %d points (%d highlighted).\n",
		duration, len(result.Points), min(len(result.Points), max(0, result.Highlight)))
	return nil
}

// writeImage renders points and writes the SVG or PNG encoding to w.
func writeImage(w io.Writer, points []schema.DataPoint, opts chart.Options, mode schema.OutputMode) error {
	drawing, err := chart.Render(points, opts)
	if err != nil {
		return err
	}
	if mode == schema.PNGOut {
		return drawing.WritePNG(w)
	}
	return drawing.WriteSVG(w)
}
