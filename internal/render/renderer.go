package render

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/textwrap"
)

// Renderer keeps the keyed set of groups currently drawn for one floor.
// It is not safe for concurrent use; callers own one renderer per view.
type Renderer struct {
	grid   floorplan.Grid
	style  Style
	names  textwrap.Measurer
	dates  textwrap.Measurer
	groups map[string]Group
	order  []string
}

// New creates a renderer with explicit measurers.
func New(grid floorplan.Grid, style Style, names, dates textwrap.Measurer) *Renderer {
	return &Renderer{
		grid:   grid,
		style:  style,
		names:  names,
		dates:  dates,
		groups: make(map[string]Group),
	}
}

// NewWithFonts creates a renderer that measures text with Go Regular at the
// style's font sizes.
func NewWithFonts(grid floorplan.Grid, style Style) (*Renderer, error) {
	names, err := textwrap.NewFontMeasurer(style.NameFontSize)
	if err != nil {
		return nil, fmt.Errorf("name font: %w", err)
	}
	dates, err := textwrap.NewFontMeasurer(style.DateFontSize)
	if err != nil {
		return nil, fmt.Errorf("date font: %w", err)
	}
	return New(grid, style, names, dates), nil
}

// Fork returns an empty renderer sharing r's geometry and measurers.
func (r *Renderer) Fork() *Renderer {
	return New(r.grid, r.style, r.names, r.dates)
}

// Build lays out the groups for offices without touching the current set.
func (r *Renderer) Build(offices []floorplan.Office) []Group {
	out := make([]Group, 0, len(offices))
	for _, o := range offices {
		out = append(out, BuildGroup(o, r.style, r.names, r.dates))
	}
	return out
}

// Render replaces the current set with the groups for offices and returns
// the operations that were applied.
func (r *Renderer) Render(offices []floorplan.Office) Ops {
	next := dedupe(r.Build(offices))
	ops := Reconcile(r.groups, next)

	r.groups = make(map[string]Group, len(next))
	r.order = r.order[:0]
	for _, g := range next {
		r.groups[g.ID] = g
		r.order = append(r.order, g.ID)
	}
	return ops
}

// Groups returns the current set in render order.
func (r *Renderer) Groups() []Group {
	out := make([]Group, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.groups[id])
	}
	return out
}

// Snapshot returns a copy of the keyed set.
func (r *Renderer) Snapshot() map[string]Group {
	out := make(map[string]Group, len(r.groups))
	for id, g := range r.groups {
		out[id] = g
	}
	return out
}

// Size is the canvas size: the furthest box edge plus padding, or the grid
// origin plus padding when nothing is drawn.
func (r *Renderer) Size() (width, height float64) {
	if len(r.groups) == 0 {
		return r.grid.StartX + r.grid.Padding, r.grid.StartY + r.grid.Padding
	}
	var maxX, maxY float64
	for _, g := range r.groups {
		maxX = max(maxX, g.X+g.Width)
		maxY = max(maxY, g.Y+g.Height)
	}
	return maxX + r.grid.Padding, maxY + r.grid.Padding
}

const svgStyle = `.office{fill:#f0f0f0;stroke:#999;stroke-width:1}
.office-group.occupied .office{fill:#cfe8cf}
.id-text{font-family:sans-serif;font-size:11px;font-weight:bold;text-anchor:middle}
.occupant-name{font-family:sans-serif;font-size:%spx;text-anchor:middle}
.occupant-dates{font-family:sans-serif;font-size:%spx;fill:#555;text-anchor:middle}`

// WriteSVG writes the current set as a standalone SVG document.
func (r *Renderer) WriteSVG(w io.Writer) error {
	width, height := r.Size()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="office-layout" width="%s" height="%s">`+"\n",
		num(width), num(height))
	fmt.Fprintf(&b, "<style>\n"+svgStyle+"\n</style>\n", num(r.style.NameFontSize), num(r.style.DateFontSize))
	for _, g := range r.Groups() {
		b.WriteString(g.SVG())
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SVG renders the group as a standalone <g> fragment.
func (g Group) SVG() string {
	var b strings.Builder
	cx := num(g.Width / 2)
	fmt.Fprintf(&b, `<g id="office-%s" class="%s" data-office-id="%s" transform="translate(%s,%s)">`,
		esc(g.ID), g.Class(), esc(g.ID), num(g.X), num(g.Y))
	fmt.Fprintf(&b, `<rect class="%s" x="0" y="0" width="%s" height="%s"/>`,
		g.RectClass(), num(g.Width), num(g.Height))
	fmt.Fprintf(&b, `<text class="id-text" x="%s" y="%s">%s</text>`, cx, num(g.LabelY), esc(g.ID))
	for _, o := range g.Occupants {
		b.WriteString(`<g class="occupant-info">`)
		writeText(&b, "occupant-text occupant-name", cx, o.Name)
		if len(o.Dates) > 0 {
			writeText(&b, "occupant-text occupant-dates", cx, o.Dates)
		}
		b.WriteString(`</g>`)
	}
	b.WriteString(`</g>`)
	return b.String()
}

func writeText(b *strings.Builder, class, x string, lines []textwrap.Line) {
	fmt.Fprintf(b, `<text class="%s" x="%s">`, class, x)
	for _, l := range lines {
		fmt.Fprintf(b, `<tspan x="%s" y="%s">%s</tspan>`, x, num(l.Y), esc(l.Text))
	}
	b.WriteString(`</text>`)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func esc(s string) string {
	return html.EscapeString(s)
}
