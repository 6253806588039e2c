package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// SVG returns the drawing as a standalone SVG document.
func (d *Drawing) SVG() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		d.Width, d.Height, d.Width, d.Height)
	if d.Empty() {
		sb.WriteString("</svg>")
		return sb.String()
	}

	fmt.Fprintf(&sb, `<g transform="translate(%d,%d)">`, d.Margin.Left, d.Margin.Top)
	d.writeGrid(&sb)
	d.writeXAxis(&sb)
	d.writeYAxis(&sb)
	for _, p := range d.Paths {
		fmt.Fprintf(&sb, `<path class="series %s" d="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
			p.Role, p.D, p.Stroke, coord(p.StrokeWidth))
	}
	sb.WriteString("</g></svg>")
	return sb.String()
}

// WriteSVG writes the SVG document to w.
func (d *Drawing) WriteSVG(w io.Writer) error {
	_, err := io.WriteString(w, d.SVG())
	return err
}

func (d *Drawing) writeGrid(sb *strings.Builder) {
	sb.WriteString(`<g class="grid x-grid">`)
	for _, t := range d.XTicks {
		fmt.Fprintf(sb, `<line x1="%s" y1="0" x2="%s" y2="%d" stroke="%s"/>`,
			coord(t.Pos), coord(t.Pos), d.InnerHeight, GridStroke)
	}
	sb.WriteString(`</g><g class="grid y-grid">`)
	for _, t := range d.YTicks {
		fmt.Fprintf(sb, `<line x1="0" y1="%s" x2="%d" y2="%s" stroke="%s"/>`,
			coord(t.Pos), d.InnerWidth, coord(t.Pos), GridStroke)
	}
	sb.WriteString(`</g>`)
}

func (d *Drawing) writeXAxis(sb *strings.Builder) {
	fmt.Fprintf(sb, `<g class="axis x-axis" transform="translate(0,%d)" font-size="%d" text-anchor="middle">`,
		d.InnerHeight, TickFontSize)
	fmt.Fprintf(sb, `<path class="domain" d="M0,%dV0H%dV%d" fill="none" stroke="%s"/>`,
		TickSize, d.InnerWidth, TickSize, TextFill)
	for _, t := range d.XTicks {
		fmt.Fprintf(sb, `<g class="tick" transform="translate(%s,0)"><line y2="%d" stroke="%s"/><text y="%d" dy="0.71em" fill="%s">%s</text></g>`,
			coord(t.Pos), TickSize, TextFill, TickSize+3, TextFill, html.EscapeString(t.Label))
	}
	fmt.Fprintf(sb, `<text class="axis-title" x="%s" y="35" fill="%s" text-anchor="middle" font-size="%d">%s</text>`,
		coord(float64(d.InnerWidth)/2), TextFill, TitleFontSize, html.EscapeString(d.XTitle))
	sb.WriteString(`</g>`)
}

func (d *Drawing) writeYAxis(sb *strings.Builder) {
	fmt.Fprintf(sb, `<g class="axis y-axis" font-size="%d" text-anchor="end">`, TickFontSize)
	fmt.Fprintf(sb, `<path class="domain" d="M-%d,%dH0V0H-%d" fill="none" stroke="%s"/>`,
		TickSize, d.InnerHeight, TickSize, TextFill)
	for _, t := range d.YTicks {
		fmt.Fprintf(sb, `<g class="tick" transform="translate(0,%s)"><line x2="-%d" stroke="%s"/><text x="-%d" dy="0.32em" fill="%s">%s</text></g>`,
			coord(t.Pos), TickSize, TextFill, TickSize+3, TextFill, html.EscapeString(t.Label))
	}
	fmt.Fprintf(sb, `<text class="axis-title" transform="rotate(-90)" x="%s" y="-40" fill="%s" text-anchor="middle" font-size="%d">%s</text>`,
		coord(-float64(d.InnerHeight)/2), TextFill, TitleFontSize, html.EscapeString(d.YTitle))
	sb.WriteString(`</g>`)
}
