package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/service"
)

const requestTimeout = 30 * time.Second

// loadLastBIN prefills the BIN field and history from storage.
func (m Model) loadLastBIN() tea.Cmd {
	o := m.orchestrator
	return func() tea.Msg {
		if o == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		history, err := o.History(ctx)
		if err != nil {
			slog.Warn("Failed to load BIN history", "error", err)
		}
		return lastBINMsg{bin: o.LastBIN(ctx), history: history}
	}
}

// generate runs the orchestrator with the current form values.
func (m Model) generate(req engine.Request) tea.Cmd {
	o := m.orchestrator
	return func() tea.Msg {
		if o == nil {
			return generatedMsg{err: errNoEngine}
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		result, err := o.Generate(ctx, req)
		return generatedMsg{result: result, err: err}
	}
}

// copyOutput puts the generated output on the clipboard.
func (m Model) copyOutput(text string) tea.Cmd {
	o := m.orchestrator
	return func() tea.Msg {
		if o == nil {
			return copiedMsg{err: errNoEngine}
		}
		return copiedMsg{err: o.Copy(context.Background(), text)}
	}
}

// rememberBIN saves the BIN when the field loses focus.
func (m Model) rememberBIN(input string) tea.Cmd {
	o := m.orchestrator
	return func() tea.Msg {
		if o == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if !o.RememberBIN(ctx, input) {
			return nil
		}
		history, err := o.History(ctx)
		if err != nil {
			slog.Warn("Failed to reload BIN history", "error", err)
			return nil
		}
		return rememberedMsg{history: history}
	}
}

// showToast displays a status message and schedules its removal.
func (m *Model) showToast(kind service.NotificationKind, message string) tea.Cmd {
	m.toastID++
	m.toast = &toastMsg{kind: kind, message: message}

	id := m.toastID
	return tea.Tick(m.config.ToastTTL, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}
