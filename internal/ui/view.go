package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wrap"
	"github.com/robottwo/linpredict/internal/chart"
	"github.com/robottwo/linpredict/internal/series"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minViewWidth  = 40

	// gap, widest button state and the cursor cell
	buttonReserve = 16

	title        = "◆ Linear Regression Predictor"
	inputLabel   = "Enter a number (0-10):"
	resultsTitle = "Prediction Results"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}
	top := m.renderTop()
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderResults(top), m.renderFooter())
}

func (m model) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return max(m.width, minViewWidth)
}

func (m model) viewHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

// innerWidth is the content width of a panel.
func (m model) innerWidth() int {
	return m.viewWidth() - panelStyle.GetHorizontalFrameSize()
}

func (m model) renderTop() string {
	width := m.viewWidth()
	header := lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(title))
	sub := runewidth.Truncate(m.subtitle(), width, "…")
	subline := lipgloss.PlaceHorizontal(width, lipgloss.Center, subtitleStyle.Render(sub))

	return lipgloss.JoinVertical(lipgloss.Left, header, subline, m.renderInputPanel())
}

func (m model) subtitle() string {
	line := "model: checking…"
	switch {
	case m.healthErr != nil:
		line = "model: unavailable"
	case m.modelInfo != nil:
		line = fmt.Sprintf("model: y = %sx %s %s",
			series.FormatValue(m.modelInfo.Coefficient),
			sign(m.modelInfo.Intercept),
			series.FormatValue(math.Abs(m.modelInfo.Intercept)))
	case m.opts.Health == nil:
		line = ""
	}
	if m.opts.Endpoint == "" {
		return line
	}
	if line == "" {
		return m.opts.Endpoint
	}
	return line + " · " + m.opts.Endpoint
}

func (m model) renderInputPanel() string {
	row := lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), "  ", m.renderButton())
	lines := []string{labelStyle.Render(inputLabel), row}

	if m.status.IsFailed() {
		width := m.innerWidth() - errorBoxStyle.GetHorizontalFrameSize()
		lines = append(lines, errorBoxStyle.Width(width+errorBoxStyle.GetHorizontalPadding()).
			Render(wrap.String(m.status.Message, width)))
	}

	style := panelStyle
	if m.focus == focusInput {
		style = focusedPanelStyle
	}
	return style.Width(m.viewWidth() - style.GetHorizontalBorderSize()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m model) renderButton() string {
	if m.status.IsPending() {
		return disabledButtonStyle.Render(m.spinner.View() + " Predict")
	}
	return buttonStyle.Render("→ Predict")
}

// chartSize is the area left for the chart below top.
func (m model) chartSize(top string) (int, int) {
	chrome := panelStyle.GetVerticalFrameSize() + 1 // heading
	footer := 1
	height := m.viewHeight() - lipgloss.Height(top) - chrome - footer
	return m.innerWidth(), height
}

// plotGeometry returns the chart layout and the screen cell at which its
// plot area starts.
func (m model) plotGeometry() (chart.Plot, int, int) {
	top := m.renderTop()
	width, height := m.chartSize(top)
	plot := chart.Layout(m.series, width, height)

	originX := panelStyle.GetBorderLeftSize() + panelStyle.GetPaddingLeft() + plot.LabelWidth + 1
	// border, heading, y axis title
	originY := lipgloss.Height(top) + panelStyle.GetBorderTopSize() + 1 + 1
	return plot, originX, originY
}

func (m model) renderResults(top string) string {
	width, height := m.chartSize(top)

	selected := -1
	if m.focus == focusChart || m.hovering {
		selected = m.selected
	}
	body := chart.Render(m.series, chart.Options{
		Width:    width,
		Height:   height,
		Selected: selected,
		Styles:   chart.DefaultStyles(),
	})

	style := panelStyle
	if m.focus == focusChart {
		style = focusedPanelStyle
	}
	return style.Width(m.viewWidth() - style.GetHorizontalBorderSize()).
		Render(lipgloss.JoinVertical(lipgloss.Left, headingStyle.Render(resultsTitle), body))
}

func (m model) renderFooter() string {
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	var keys []string
	if m.focus == focusChart {
		keys = []string{"←/→: Select point", "Enter: Predict", "Tab/Esc: Back to input", "Ctrl+Y: Copy CSV"}
	} else {
		keys = []string{"Enter: Predict", "↑/↓: ±0.1", "Tab: Chart", "Ctrl+Y: Copy CSV", "Esc: Quit"}
	}
	return helpStyle.Render(runewidth.Truncate(strings.Join(keys, " | "), m.viewWidth(), "…"))
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return "+"
}
