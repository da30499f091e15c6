package ui

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robottwo/linpredict/internal/journal"
	"github.com/robottwo/linpredict/internal/predict"
	"github.com/robottwo/linpredict/internal/series"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.innerWidth()-lipgloss.Width(m.input.Prompt)-buttonReserve)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case predictionMsg:
		return m.handlePrediction(msg)

	case healthMsg:
		m.modelInfo, m.healthErr = msg.info, msg.err
		if msg.err != nil {
			m.logger.Warn("health check failed", zap.Error(msg.err))
		} else {
			m.logger.Debug("model info",
				zap.Float64("coefficient", msg.info.Coefficient),
				zap.Float64("intercept", msg.info.Intercept))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.status.IsPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.focus == focusChart {
			return m.focusInput(), nil
		}
		m.quitting = true
		return m, tea.Quit
	case "enter":
		return m.submit()
	case "tab", "shift+tab":
		if m.focus == focusChart {
			return m.focusInput(), nil
		}
		return m.focusChart(), nil
	case "ctrl+y":
		return m.copySeries(), nil
	}

	if m.focus == focusChart {
		last := m.series.Len() - 1
		switch msg.String() {
		case "left", "h":
			m.selected = max(0, m.selected-1)
		case "right", "l":
			m.selected = min(last, m.selected+1)
		case "home":
			m.selected = 0
		case "end":
			m.selected = last
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyUp:
		m.input.SetValue(predict.Step(m.input.Value(), inputStep, inputMin, inputMax))
		m.input.CursorEnd()
		return m, nil
	case tea.KeyDown:
		m.input.SetValue(predict.Step(m.input.Value(), -inputStep, inputMin, inputMax))
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) focusInput() model {
	m.focus = focusInput
	m.hovering = false
	m.input.Focus()
	return m
}

// focusChart is a no-op until there is something to select.
func (m model) focusChart() model {
	if m.series.IsEmpty() {
		return m
	}
	m.focus = focusChart
	m.input.Blur()
	if m.selected < 0 || m.selected >= m.series.Len() {
		m.selected = 0
	}
	return m
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionMotion {
		return m, nil
	}
	plot, originX, originY := m.plotGeometry()
	col, row := msg.X-originX, msg.Y-originY
	if len(plot.Points) == 0 || col < 0 || col >= plot.Width || row < 0 || row >= plot.Height {
		m.hovering = false
		return m, nil
	}
	m.hovering = true
	m.selected = plot.Nearest(col)
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.status.IsPending() {
		return m, nil
	}
	m.status = PendingStatus()

	text := m.input.Value()
	x, err := predict.ParseInput(text)
	if err != nil {
		m.status = FailedStatus(predict.Message(err))
		m.logger.Debug("rejected input", zap.String("input", text))
		return m, m.record(journal.Entry{Input: text, Error: m.status.Message})
	}

	m.requestID++
	m.logger.Debug("requesting prediction", zap.Int("request", m.requestID), zap.Float64("x", x))
	return m, tea.Batch(m.spinner.Tick, m.requestPrediction(m.requestID, text, x))
}

func (m model) requestPrediction(id int, text string, x float64) tea.Cmd {
	ctx := m.ctx
	predictor := m.opts.Predictor
	return func() tea.Msg {
		start := time.Now()
		prediction, err := predictor.Predict(ctx, x)
		return predictionMsg{
			requestID:  id,
			input:      text,
			x:          x,
			prediction: prediction,
			err:        err,
			latencyMs:  time.Since(start).Milliseconds(),
		}
	}
}

func (m model) handlePrediction(msg predictionMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		m.logger.Debug("discarding stale prediction",
			zap.Int("request", msg.requestID), zap.Int("latest", m.requestID))
		return m, nil
	}

	entry := journal.Entry{
		Input:     msg.input,
		X:         sql.NullFloat64{Float64: msg.x, Valid: true},
		LatencyMs: msg.latencyMs,
	}

	if msg.err != nil {
		m.status = FailedStatus(predict.Message(msg.err))
		entry.Error = m.status.Message
		m.logger.Info("prediction failed",
			zap.Float64("x", msg.x), zap.Int64("latency_ms", msg.latencyMs), zap.Error(msg.err))
		return m, m.record(entry)
	}

	m.series = m.series.Add(series.Point{X: msg.x, Prediction: msg.prediction})
	_, m.selected, _ = lo.FindLastIndexOf(m.series, func(p series.Point) bool {
		return p.X == msg.x
	})
	m.status = IdleStatus()
	entry.Prediction = sql.NullFloat64{Float64: msg.prediction, Valid: true}
	m.logger.Info("prediction",
		zap.Float64("x", msg.x), zap.Float64("prediction", msg.prediction),
		zap.Int64("latency_ms", msg.latencyMs))
	return m, m.record(entry)
}

// record writes entry to the journal from a command so a locked database
// never stalls the update loop.
func (m model) record(entry journal.Entry) tea.Cmd {
	if m.opts.Journal == nil {
		return nil
	}
	entry.SessionID = m.opts.SessionID
	j := m.opts.Journal
	logger := m.logger
	return func() tea.Msg {
		if err := j.Record(entry); err != nil {
			logger.Warn("failed to record prediction attempt", zap.Error(err))
		}
		return nil
	}
}

func (m model) copySeries() model {
	if m.series.IsEmpty() {
		m.notice = "Nothing to copy yet"
		return m
	}
	if err := m.opts.Clipboard(m.series.CSV()); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.notice = "Copy failed: " + err.Error()
		return m
	}
	m.notice = fmt.Sprintf("Copied %d points as CSV", m.series.Len())
	return m
}
