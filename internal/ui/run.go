package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robottwo/linpredict/internal/series"
)

// Run starts the interactive predictor and blocks until the user quits. It
// returns the series collected during the session.
func Run(ctx context.Context, opts Options) (series.Series, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	m, err := p.Run()
	if err != nil {
		return nil, err
	}
	return m.(model).Series(), nil
}
