package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive form and blocks until the user quits or ctx is
// canceled.
func Run(ctx context.Context, opts ...Option) error {
	m := New(opts...)
	if m.orchestrator == nil {
		return fmt.Errorf("tui: %w", errNoEngine)
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run form: %w", err)
	}
	return nil
}
