package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robottwo/linpredict/internal/journal"
	"github.com/robottwo/linpredict/internal/predict"
	"github.com/robottwo/linpredict/internal/series"
	"go.uber.org/zap"
)

// Bounds and step of the input field. Typed values outside them are still
// submitted; only the arrow keys respect them.
const (
	inputMin  = 0.0
	inputMax  = 10.0
	inputStep = 0.1
)

// Recorder stores prediction attempts.
type Recorder interface {
	Record(entry journal.Entry) error
}

type Options struct {
	Predictor predict.Predictor
	// Health is optional; when set the fitted model is shown in the header.
	Health predict.HealthChecker
	// Journal is optional.
	Journal   Recorder
	Logger    *zap.Logger
	SessionID string
	Endpoint  string
	// Clipboard defaults to the system clipboard.
	Clipboard func(text string) error
}

type focusArea int

const (
	focusInput focusArea = iota
	focusChart
)

type predictionMsg struct {
	requestID  int
	input      string
	x          float64
	prediction float64
	err        error
	latencyMs  int64
}

type healthMsg struct {
	info *predict.ModelInfo
	err  error
}

type model struct {
	ctx     context.Context
	opts    Options
	logger  *zap.Logger
	input   textinput.Model
	spinner spinner.Model

	series    series.Series
	status    Status
	requestID int

	focus    focusArea
	hovering bool
	selected int

	modelInfo *predict.ModelInfo
	healthErr error
	notice    string

	width    int
	height   int
	quitting bool
}

func newModel(ctx context.Context, opts Options) model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Placeholder = "Enter a value..."
	ti.Prompt = "› "
	ti.CharLimit = 32
	ti.Width = 30
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return model{
		ctx:      ctx,
		opts:     opts,
		logger:   opts.Logger,
		input:    ti,
		spinner:  s,
		status:   IdleStatus(),
		focus:    focusInput,
		selected: -1,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.opts.Health != nil {
		cmds = append(cmds, m.checkHealth())
	}
	return tea.Batch(cmds...)
}

func (m model) checkHealth() tea.Cmd {
	ctx := m.ctx
	health := m.opts.Health
	return func() tea.Msg {
		info, err := health.Health(ctx)
		return healthMsg{info: info, err: err}
	}
}

// Series returns the points accumulated so far.
func (m model) Series() series.Series {
	return m.series
}

func (m model) Status() Status {
	return m.status
}
