package chart

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	"github.com/huangsam/storecast/schema"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var pngStrokes = map[Role]drawing.Color{
	NormalRole:      drawing.ColorFromHex("4682b4"), // steelblue
	HighlightedRole: drawing.ColorFromHex("ff0000"),
}

// WritePNG rasterizes the drawing with the same domains, ticks and series.
func (d *Drawing) WritePNG(w io.Writer) error {
	if d.Empty() {
		img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		return png.Encode(w, img)
	}

	xMin, xMax := d.X.Domain[0], d.X.Domain[1]
	if d.X.Degenerate() {
		xMin, xMax = xMin.Add(-12*time.Hour), xMax.Add(12*time.Hour)
	}

	grid := gochart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
	xAxis := gochart.XAxis{
		Name:           d.XTitle,
		Range:          &gochart.ContinuousRange{Min: gochart.TimeToFloat64(xMin), Max: gochart.TimeToFloat64(xMax)},
		GridMajorStyle: grid,
	}
	for _, t := range d.XTicks {
		v := gochart.TimeToFloat64(t.Time)
		xAxis.Ticks = append(xAxis.Ticks, gochart.Tick{Value: v, Label: t.Label})
		xAxis.GridLines = append(xAxis.GridLines, gochart.GridLine{Value: v})
	}

	yAxis := gochart.YAxis{
		Name:           d.YTitle,
		Range:          &gochart.ContinuousRange{Min: d.Y.Domain[0], Max: d.Y.Domain[1]},
		GridMajorStyle: grid,
	}
	for _, t := range d.YTicks {
		yAxis.Ticks = append(yAxis.Ticks, gochart.Tick{Value: t.Value, Label: t.Label})
		yAxis.GridLines = append(yAxis.GridLines, gochart.GridLine{Value: t.Value})
	}

	ch := gochart.Chart{
		Width:  d.Width,
		Height: d.Height,
		Background: gochart.Style{
			FillColor: drawing.Color{R: 255, G: 255, B: 255, A: 255},
			Padding:   gochart.Box{Top: d.Margin.Top, Left: d.Margin.Left, Right: d.Margin.Right, Bottom: d.Margin.Bottom},
		},
		XAxis: xAxis,
		YAxis: yAxis,
	}
	for _, p := range d.Paths {
		ch.Series = append(ch.Series, timeSeries(p))
	}
	return ch.Render(gochart.PNG, w)
}

// timeSeries converts a path to a go-chart series. A single point is padded with
// a second x value one second later since go-chart needs two distinct x values.
func timeSeries(p SeriesPath) gochart.TimeSeries {
	data := p.Data
	if len(data) == 1 {
		data = []schema.DataPoint{data[0], {Date: data[0].Date.Add(time.Second), Value: data[0].Value}}
	}
	ts := gochart.TimeSeries{
		Name:  string(p.Role),
		Style: gochart.Style{StrokeColor: pngStrokes[p.Role], StrokeWidth: p.StrokeWidth},
	}
	for _, dp := range data {
		ts.XValues = append(ts.XValues, dp.Date)
		ts.YValues = append(ts.YValues, dp.Value)
	}
	if len(p.Data) == 1 {
		ts.Style.DotWidth = 4
		ts.Style.DotColor = pngStrokes[p.Role]
	}
	return ts
}
