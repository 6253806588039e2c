package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/storecast/core/chart"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/parquet"
	"github.com/huangsam/storecast/schema"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintChart writes a rendered series to the configured output file or stdout.
func PrintChart(points []schema.DataPoint, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteChart(w, points, cfg)
	}, fmt.Sprintf("Wrote %s chart", cfg.Output))
}

// WriteChart renders points and writes the result to w. Text and JSON describe the
// computed geometry, SVG and PNG are the images themselves.
func WriteChart(w io.Writer, points []schema.DataPoint, cfg *contract.Config) error {
	opts := ChartOptions(cfg, schema.DefaultChartHighlight)
	drawing, err := chart.Render(points, opts)
	if err != nil {
		return err
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.SVGOut:
		return drawing.WriteSVG(w)
	case schema.PNGOut:
		return drawing.WritePNG(w)
	case schema.JSONOut:
		return writeJSON(w, drawing)
	case schema.CSVOut:
		roles := windowRoles(points, opts.Highlight)
		return writeCSVWithHeader(w, []string{"date", "value", "role"}, func(cw *csv.Writer) error {
			for i, p := range points {
				if err := cw.Write([]string{schema.FormatDate(p.Date), fmtFloat(p.Value), string(roles[i])}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return parquet.WriteForecastPoints(w, parquet.ConvertForecastResult(schema.ForecastResult{
			Points:    points,
			Highlight: opts.Highlight,
		}))
	default:
		return writeDrawingSummary(w, drawing, fmtFloat)
	}
}

// writeDrawingSummary prints the domains, ticks and paths of a drawing.
func writeDrawingSummary(w io.Writer, d *chart.Drawing, fmtFloat func(float64) string) error {
	_, _ = fmt.Fprintf(w, "Chart %dx%d (plot area %dx%d)\n", d.Width, d.Height, d.InnerWidth, d.InnerHeight)
	if d.Empty() {
		_, _ = fmt.Fprintln(w, "No data points to draw.")
		return nil
	}
	_, _ = fmt.Fprintf(w, "Time domain: %s to %s\n", schema.FormatDate(d.X.Domain[0]), schema.FormatDate(d.X.Domain[1]))
	_, _ = fmt.Fprintf(w, "Value domain: %s to %s\n", fmtFloat(d.Y.Domain[0]), fmtFloat(d.Y.Domain[1]))

	rows := make([][]string, 0, len(d.Paths))
	for _, p := range d.Paths {
		rows = append(rows, []string{
			string(p.Role),
			strconv.Itoa(len(p.Data)),
			schema.FormatDate(p.Data[0].Date),
			schema.FormatDate(p.Data[len(p.Data)-1].Date),
			p.Stroke,
		})
	}
	if err := renderTable(w, []string{"Series", "Points", "From", "To", "Stroke"}, rows, tw.AlignLeft); err != nil {
		return err
	}

	xLabels := make([]string, len(d.XTicks))
	for i, t := range d.XTicks {
		xLabels[i] = t.Label
	}
	yLabels := make([]string, len(d.YTicks))
	for i, t := range d.YTicks {
		yLabels[i] = t.Label
	}
	_, _ = fmt.Fprintf(w, "X ticks: %v\nY ticks: %v\n", xLabels, yLabels)
	return nil
}
