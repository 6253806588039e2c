package chart

import (
	"math"
	"strconv"
	"strings"
)

// Point is a pixel position inside the plot area.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// pathBuilder serializes drawing commands as an SVG path.
type pathBuilder struct {
	b strings.Builder
}

// coord rounds to three decimals so output is stable across platforms.
func coord(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (p *pathBuilder) moveTo(x, y float64) {
	p.b.WriteString("M" + coord(x) + "," + coord(y))
}

func (p *pathBuilder) lineTo(x, y float64) {
	p.b.WriteString("L" + coord(x) + "," + coord(y))
}

func (p *pathBuilder) bezierTo(x1, y1, x2, y2, x, y float64) {
	p.b.WriteString("C" + coord(x1) + "," + coord(y1) + "," + coord(x2) + "," + coord(y2) + "," + coord(x) + "," + coord(y))
}

func (p *pathBuilder) closePath() {
	p.b.WriteString("Z")
}

func (p *pathBuilder) String() string {
	return p.b.String()
}

// linearPath joins points with straight segments.
func linearPath(points []Point) string {
	var p pathBuilder
	for i, pt := range points {
		if i == 0 {
			p.moveTo(pt.X, pt.Y)
		} else {
			p.lineTo(pt.X, pt.Y)
		}
	}
	if len(points) == 1 {
		p.closePath()
	}
	return p.String()
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// monotoneState tracks the last two points and the incoming tangent.
type monotoneState struct {
	p              *pathBuilder
	x0, y0, x1, y1 float64
	t0             float64
	n              int
}

// slope3 is the tangent at (x1, y1) given the neighbor (x2, y2), limited so the
// curve cannot overshoot either segment.
func (s *monotoneState) slope3(x2, y2 float64) float64 {
	h0 := s.x1 - s.x0
	h1 := x2 - s.x1
	d0, d1 := h0, h1
	if d0 == 0 && h1 < 0 {
		d0 = math.Copysign(0, -1)
	}
	if d1 == 0 && h0 < 0 {
		d1 = math.Copysign(0, -1)
	}
	s0 := (s.y1 - s.y0) / d0
	s1 := (y2 - s.y1) / d1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	return t
}

// slope2 is the one-sided tangent at an endpoint.
func (s *monotoneState) slope2(t float64) float64 {
	h := s.x1 - s.x0
	if h != 0 {
		return (3*(s.y1-s.y0)/h - t) / 2
	}
	return t
}

// segment emits a cubic Bezier from (x0, y0) to (x1, y1) with tangents t0 and t1.
func (s *monotoneState) segment(t0, t1 float64) {
	dx := (s.x1 - s.x0) / 3
	s.p.bezierTo(s.x0+dx, s.y0+dx*t0, s.x1-dx, s.y1-dx*t1, s.x1, s.y1)
}

func (s *monotoneState) point(x, y float64) {
	t1 := math.NaN()
	if s.n > 0 && x == s.x1 && y == s.y1 {
		return
	}
	switch s.n {
	case 0:
		s.n = 1
		s.p.moveTo(x, y)
	case 1:
		s.n = 2
	case 2:
		s.n = 3
		t1 = s.slope3(x, y)
		s.segment(s.slope2(t1), t1)
	default:
		t1 = s.slope3(x, y)
		s.segment(s.t0, t1)
	}
	s.x0, s.x1 = s.x1, x
	s.y0, s.y1 = s.y1, y
	s.t0 = t1
}

func (s *monotoneState) end() {
	switch s.n {
	case 1:
		s.p.closePath()
	case 2:
		s.p.lineTo(s.x1, s.y1)
	case 3:
		s.segment(s.t0, s.slope2(s.t0))
	}
}

// monotonePath interpolates points with a cubic that is monotone in y between
// neighbors, assuming x is non-decreasing.
func monotonePath(points []Point) string {
	var p pathBuilder
	s := &monotoneState{p: &p}
	for _, pt := range points {
		s.point(pt.X, pt.Y)
	}
	s.end()
	return p.String()
}
