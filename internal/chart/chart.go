package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robottwo/linpredict/internal/series"
	"github.com/samber/lo"
)

const (
	XAxisTitle   = "Input Value"
	YAxisTitle   = "Prediction"
	SeriesName   = "Predicted Value"
	EmptyMessage = "No predictions yet. Enter a value to get started."

	minWidth  = 30
	minHeight = 10

	// y title, x axis, x tick labels, x title and legend rows
	reservedRows = 5
)

// Styles colours the parts of the chart.
type Styles struct {
	Axis     lipgloss.Style
	Grid     lipgloss.Style
	Line     lipgloss.Style
	Point    lipgloss.Style
	Selected lipgloss.Style
	Tooltip  lipgloss.Style
	Empty    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Axis:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Grid:     lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")),
		Line:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		Point:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true),
		Tooltip: lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#9CA3AF")).
			Padding(0, 1),
		Empty: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

// Options controls a single render.
type Options struct {
	Width  int
	Height int
	// Selected is the index of the hovered point, or -1 for none.
	Selected int
	Styles   Styles
}

// Projected is a series point placed on the plot area. Col and Row are
// character cells, DotCol and DotRow braille dots.
type Projected struct {
	series.Point
	Col    int
	Row    int
	DotCol int
	DotRow int
}

// Plot is the computed geometry of a chart.
type Plot struct {
	Width      int
	Height     int
	LabelWidth int
	XMin, XMax float64
	YMin, YMax float64
	XTicks     []float64
	YTicks     []float64
	XDigits    int
	YDigits    int
	Points     []Projected
}

// Layout projects s onto a plot area that fits in width x height cells,
// including axes, titles and the legend row.
func Layout(s series.Series, width, height int) Plot {
	width = max(width, minWidth)
	height = max(height, minHeight)

	p := Plot{Height: height - reservedRows}
	if s.IsEmpty() {
		return p
	}

	ys := s.Predictions()
	p.YTicks = niceTicks(lo.Min(ys), lo.Max(ys), max(2, p.Height/3))
	p.YMin, p.YMax = p.YTicks[0], p.YTicks[len(p.YTicks)-1]
	p.YDigits = decimals(tickStep(p.YTicks))
	for _, t := range p.YTicks {
		p.LabelWidth = max(p.LabelWidth, len(formatTick(t, p.YDigits)))
	}

	// one column for the axis line
	p.LabelWidth = min(p.LabelWidth, maxLabelLen)
	p.Width = max(1, width-p.LabelWidth-1)

	xs := s.Xs()
	p.XTicks = niceTicks(lo.Min(xs), lo.Max(xs), max(2, p.Width/12))
	p.XMin, p.XMax = p.XTicks[0], p.XTicks[len(p.XTicks)-1]
	p.XDigits = decimals(tickStep(p.XTicks))

	p.Points = make([]Projected, len(s))
	for i, pt := range s {
		dotCol := p.dotCol(pt.X)
		dotRow := p.dotRow(pt.Prediction)
		p.Points[i] = Projected{
			Point:  pt,
			Col:    dotCol / 2,
			Row:    dotRow / 4,
			DotCol: dotCol,
			DotRow: dotRow,
		}
	}

	return p
}

func (p Plot) dotCol(x float64) int {
	return scale(x, p.XMin, p.XMax, p.Width*2-1)
}

func (p Plot) dotRow(y float64) int {
	return p.Height*4 - 1 - scale(y, p.YMin, p.YMax, p.Height*4-1)
}

func scale(v, from, to float64, span int) int {
	// halved so that differences near ±MaxFloat64 stay finite
	frac := (v/2 - from/2) / (to/2 - from/2)
	if to == from || !isFinite(frac) {
		return 0
	}
	pos := int(math.Round(frac * float64(span)))
	return max(0, min(span, pos))
}

// Nearest returns the index of the point whose column is closest to col,
// or -1 when there are no points.
func (p Plot) Nearest(col int) int {
	best := -1
	bestDist := math.MaxInt
	for i, pt := range p.Points {
		if d := abs(pt.Col - col); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Render draws s as a line chart. An empty series renders the empty-state
// message instead.
func Render(s series.Series, opts Options) string {
	width := max(opts.Width, minWidth)
	height := max(opts.Height, minHeight)
	st := opts.Styles

	if s.IsEmpty() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, st.Empty.Render(EmptyMessage))
	}

	p := Layout(s, width, height)
	c := p.draw(opts.Selected)

	yLabels := make(map[int]string, len(p.YTicks))
	for _, t := range p.YTicks {
		yLabels[p.dotRow(t)/4] = formatTick(t, p.YDigits)
	}

	var b strings.Builder
	b.WriteString(st.Axis.Render(YAxisTitle) + "\n")

	for row := 0; row < p.Height; row++ {
		label, ok := yLabels[row]
		axis := "│"
		if ok {
			axis = "┤"
		}
		b.WriteString(st.Axis.Render(padLeft(label, p.LabelWidth) + axis))
		b.WriteString(renderRow(c.cells[row], st))
		b.WriteString("\n")
	}

	b.WriteString(st.Axis.Render(p.xAxisLine()) + "\n")
	b.WriteString(st.Axis.Render(p.xTickLabels()) + "\n")
	b.WriteString(st.Axis.Render(center(XAxisTitle, p.LabelWidth+1, p.Width)) + "\n")
	b.WriteString(legend(s, opts.Selected, st))

	return b.String()
}

func (p Plot) draw(selected int) *canvas {
	c := newCanvas(p.Width, p.Height)

	for _, t := range p.YTicks {
		c.hline(p.dotRow(t) / 4)
	}
	for _, t := range p.XTicks {
		c.vline(p.dotCol(t) / 2)
	}

	for i := 1; i < len(p.Points); i++ {
		a, b := p.Points[i-1], p.Points[i]
		c.line(a.DotCol, a.DotRow, b.DotCol, b.DotRow)
	}

	for i, pt := range p.Points {
		if i == selected {
			continue
		}
		c.mark(pt.Col, pt.Row, kindPoint, pointMarker)
	}
	if selected >= 0 && selected < len(p.Points) {
		pt := p.Points[selected]
		c.mark(pt.Col, pt.Row, kindSelected, selectedMarker)
	}

	return c
}

// renderRow styles runs of same-kind cells together.
func renderRow(cells []cell, st Styles) string {
	var b strings.Builder
	var run strings.Builder
	kind := kindEmpty

	flush := func() {
		if run.Len() == 0 {
			return
		}
		text := run.String()
		switch kind {
		case kindGrid:
			text = st.Grid.Render(text)
		case kindLine:
			text = st.Line.Render(text)
		case kindPoint:
			text = st.Point.Render(text)
		case kindSelected:
			text = st.Selected.Render(text)
		}
		b.WriteString(text)
		run.Reset()
	}

	for _, cl := range cells {
		if cl.kind != kind {
			flush()
			kind = cl.kind
		}
		run.WriteRune(cl.glyph())
	}
	flush()

	return b.String()
}

func (p Plot) xAxisLine() string {
	line := []rune(strings.Repeat("─", p.Width))
	for _, t := range p.XTicks {
		if col := p.dotCol(t) / 2; col >= 0 && col < len(line) {
			line[col] = '┬'
		}
	}
	return strings.Repeat(" ", p.LabelWidth) + "└" + string(line)
}

// xTickLabels centres each label under its tick, skipping labels that would
// overlap the previous one.
func (p Plot) xTickLabels() string {
	offset := p.LabelWidth + 1
	buf := []rune(strings.Repeat(" ", offset+p.Width))
	nextFree := 0

	for _, t := range p.XTicks {
		label := []rune(formatTick(t, p.XDigits))
		start := offset + p.dotCol(t)/2 - len(label)/2
		start = max(start, 0)
		if start+len(label) > len(buf) {
			start = len(buf) - len(label)
		}
		if start < nextFree || start < 0 {
			continue
		}
		copy(buf[start:], label)
		nextFree = start + len(label) + 1
	}

	return strings.TrimRight(string(buf), " ")
}

func legend(s series.Series, selected int, st Styles) string {
	out := st.Point.Render(string(pointMarker)) + " " + st.Axis.Render(SeriesName)
	if selected >= 0 && selected < len(s) {
		out += "   " + st.Tooltip.Render(Tooltip(s[selected]))
	}
	return out
}

// Tooltip describes a single point the way the hover box shows it.
func Tooltip(pt series.Point) string {
	return "x: " + formatInput(pt.X) + "  " + SeriesName + ": " + formatPrediction(pt.Prediction)
}

func formatInput(v float64) string {
	s := series.FormatValue(v)
	if len(s) > maxLabelLen {
		s = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return s
}

func formatPrediction(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e9) {
		return strconv.FormatFloat(v, 'g', 6, 64)
	}
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(v, 'f', 4, 64), "0"), ".")
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func center(s string, offset, width int) string {
	pad := offset + (width-len(s))/2
	return strings.Repeat(" ", max(pad, 0)) + s
}
