// Package chart renders a dated series as a line chart whose trailing window is
// drawn in a second color on top of the historical part.
//
// The caller sorts the input ascending by date; Render never reorders points.
// Every call computes scales, ticks and paths from scratch, so identical input
// always yields identical output.
package chart

import (
	"fmt"
	"time"

	"github.com/huangsam/storecast/schema"
	"github.com/samber/lo"
)

// Role names a drawn subsequence.
type Role string

// Series roles, in drawing order.
const (
	NormalRole      Role = "normal"
	HighlightedRole Role = "highlighted"
)

// Colors and stroke used for the drawing.
const (
	NormalStroke      = "steelblue"
	HighlightedStroke = "red"
	StrokeWidth       = 2.0
	GridStroke        = "#ddd"
	TextFill          = "#333"
	TickFontSize      = 12
	TitleFontSize     = 14
	TickSize          = 6
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left int
}

// DefaultMargin leaves room for tick labels and axis titles.
var DefaultMargin = Margin{Top: 20, Right: 30, Bottom: 30, Left: 50}

// Options control the chart geometry. Zero values select the defaults.
type Options struct {
	Width     int
	Height    int
	Highlight int
	Curve     schema.CurveMode
	Margin    *Margin
	XTicks    int
	YTicks    int
	XTitle    string
	YTitle    string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:     schema.DefaultChartWidth,
		Height:    schema.DefaultChartHeight,
		Highlight: schema.DefaultChartHighlight,
		Curve:     schema.MonotoneCurve,
		XTicks:    5,
		YTicks:    10,
		XTitle:    "Time",
		YTitle:    "Prediction ($)",
	}
}

// withDefaults fills unset fields. Highlight is kept as given since zero is meaningful.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.Curve == "" {
		o.Curve = def.Curve
	}
	if o.Margin == nil {
		m := DefaultMargin
		o.Margin = &m
	}
	if o.XTicks == 0 {
		o.XTicks = def.XTicks
	}
	if o.YTicks == 0 {
		o.YTicks = def.YTicks
	}
	if o.XTitle == "" {
		o.XTitle = def.XTitle
	}
	if o.YTitle == "" {
		o.YTitle = def.YTitle
	}
	return o
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("chart size must be positive (received %dx%d)", o.Width, o.Height)
	}
	if o.Highlight < 0 {
		return fmt.Errorf("highlight must be 0 or greater (received %d)", o.Highlight)
	}
	if _, ok := schema.ValidCurveModes[o.Curve]; !ok {
		return fmt.Errorf("unknown curve %q", o.Curve)
	}
	if o.XTicks < 0 || o.YTicks < 0 {
		return fmt.Errorf("tick counts cannot be negative")
	}
	m := o.Margin
	if o.Width-m.Left-m.Right <= 0 || o.Height-m.Top-m.Bottom <= 0 {
		return fmt.Errorf("chart %dx%d leaves no plot area inside margins %+v", o.Width, o.Height, *m)
	}
	return nil
}

// XTick is a labeled position on the time axis.
type XTick struct {
	Time  time.Time `json:"time"`
	Pos   float64   `json:"pos"`
	Label string    `json:"label"`
}

// YTick is a labeled position on the value axis.
type YTick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// SeriesPath is one stroked subsequence.
type SeriesPath struct {
	Role        Role               `json:"role"`
	Data        []schema.DataPoint `json:"data"`
	Points      []Point            `json:"points"`
	D           string             `json:"d"`
	Stroke      string             `json:"stroke"`
	StrokeWidth float64            `json:"stroke_width"`
}

// Drawing is the computed geometry of one chart.
type Drawing struct {
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Margin      Margin       `json:"margin"`
	InnerWidth  int          `json:"inner_width"`
	InnerHeight int          `json:"inner_height"`
	X           TimeScale    `json:"x"`
	Y           LinearScale  `json:"y"`
	XTicks      []XTick      `json:"x_ticks"`
	YTicks      []YTick      `json:"y_ticks"`
	Paths       []SeriesPath `json:"paths"`
	XTitle      string       `json:"x_title"`
	YTitle      string       `json:"y_title"`
}

// Empty reports whether the drawing has nothing to show.
func (d *Drawing) Empty() bool {
	return len(d.Paths) == 0
}

// Path returns the path with the given role, if drawn.
func (d *Drawing) Path(role Role) (SeriesPath, bool) {
	return lo.Find(d.Paths, func(p SeriesPath) bool { return p.Role == role })
}

// Partition splits data into the historical prefix and the trailing h points.
// When h covers the whole input, normal is empty.
func Partition(data []schema.DataPoint, h int) (normal, highlighted []schema.DataPoint) {
	split := max(0, len(data)-max(0, h))
	return data[:split], data[split:]
}

// Render computes the drawing for data, which must be sorted ascending by date.
// Only invalid options produce an error.
func Render(data []schema.DataPoint, opts Options) (*Drawing, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	m := *opts.Margin
	d := &Drawing{
		Width:       opts.Width,
		Height:      opts.Height,
		Margin:      m,
		InnerWidth:  opts.Width - m.Left - m.Right,
		InnerHeight: opts.Height - m.Top - m.Bottom,
		XTitle:      opts.XTitle,
		YTitle:      opts.YTitle,
	}
	if len(data) == 0 {
		return d, nil
	}

	dates := lo.Map(data, func(p schema.DataPoint, _ int) time.Time { return p.Date })
	values := lo.Map(data, func(p schema.DataPoint, _ int) float64 { return p.Value })
	d.X = NewTimeScale(dates, 0, float64(d.InnerWidth))
	d.Y = NewLinearScale(values, float64(d.InnerHeight), 0, opts.YTicks)

	for _, t := range d.X.Ticks(opts.XTicks) {
		d.XTicks = append(d.XTicks, XTick{Time: t, Pos: d.X.Map(t), Label: formatTimeTick(t)})
	}
	yTicks := d.Y.Ticks(opts.YTicks)
	for i, label := range d.Y.TickLabels(yTicks, opts.YTicks) {
		d.YTicks = append(d.YTicks, YTick{Value: yTicks[i], Pos: d.Y.Map(yTicks[i]), Label: label})
	}

	normal, highlighted := Partition(data, opts.Highlight)
	if len(normal) > 0 {
		d.Paths = append(d.Paths, d.seriesPath(NormalRole, normal, opts.Curve))
	}
	if len(highlighted) > 0 {
		d.Paths = append(d.Paths, d.seriesPath(HighlightedRole, highlighted, opts.Curve))
	}
	return d, nil
}

func (d *Drawing) seriesPath(role Role, data []schema.DataPoint, curve schema.CurveMode) SeriesPath {
	points := lo.Map(data, func(p schema.DataPoint, _ int) Point {
		return Point{X: d.X.Map(p.Date), Y: d.Y.Map(p.Value)}
	})
	path := SeriesPath{
		Role:        role,
		Data:        data,
		Points:      points,
		Stroke:      lo.Ternary(role == HighlightedRole, HighlightedStroke, NormalStroke),
		StrokeWidth: StrokeWidth,
	}
	if curve == schema.LinearCurve {
		path.D = linearPath(points)
	} else {
		path.D = monotonePath(points)
	}
	return path
}
