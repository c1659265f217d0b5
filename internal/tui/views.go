package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/ccgen/internal/bin"
	"github.com/Veraticus/ccgen/internal/service"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("💳 Card Generator"),
		m.renderForm(),
		m.renderOutput(),
		m.renderStatus(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderForm() string {
	rows := make([]string, 0, int(fieldCount)+1)
	for f := field(0); f < fieldCount; f++ {
		rows = append(rows, m.renderRow(f))
		if f == fieldBIN {
			rows = append(rows, m.renderBINDetails())
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(f field) string {
	label := m.theme.Label.Render(f.String())
	if f == m.focus {
		label = m.theme.FocusedLabel.Render(f.String())
	}

	if !m.enabled(f) {
		return label + m.theme.Disabled.Render("disabled")
	}

	switch {
	case f.isInput():
		return label + m.inputs[f].View()
	case f.isToggle():
		return label + m.renderToggle(m.toggleState(f))
	}

	value := ""
	switch f {
	case fieldFormat:
		value = string(m.format)
	case fieldMonth:
		value = displayOption(m.month)
	case fieldYear:
		value = displayOption(m.year)
	}
	if f == m.focus {
		return label + m.theme.Value.Render("‹ "+value+" ›")
	}
	return label + m.theme.Value.Render(value)
}

func (m Model) renderBINDetails() string {
	digits := bin.Digits(m.value(fieldBIN))
	if digits == "" {
		return m.theme.Label.Render("") + m.theme.Hint.Render("Type at least 6 digits")
	}

	c := bin.Classify(digits)
	detail := fmt.Sprintf("%s · %d-digit CVC", c.Network, c.CVCLength)
	if len(digits) >= bin.MinLength {
		detail = bin.Mask(digits) + "  " + detail
	}
	return m.theme.Label.Render("") + m.theme.Hint.Render(detail)
}

func (m Model) toggleState(f field) bool {
	switch f {
	case fieldDate:
		return m.dateEnabled
	case fieldCVCToggle:
		return m.cvcEnabled
	case fieldMoney:
		return m.moneyEnabled
	}
	return false
}

func (m Model) renderToggle(on bool) string {
	if on {
		return m.theme.ToggleOn.Render("[x] on")
	}
	return m.theme.ToggleOff.Render("[ ] off")
}

func (m Model) renderOutput() string {
	content := m.output.View()
	if m.generating {
		content = m.spinner.View() + " Generating cards..."
	} else if m.result == nil && strings.TrimSpace(content) == "" {
		content = m.theme.Hint.Render("Press ctrl+g to generate")
	}
	return m.theme.Output.Width(max(m.width-2, 20)).Render(content)
}

func (m Model) renderStatus() string {
	if m.toast == nil {
		return ""
	}
	switch m.toast.kind {
	case service.NotifySuccess:
		return m.theme.StatusSuccess.Render("✓ " + m.toast.message)
	case service.NotifyError:
		return m.theme.StatusError.Render("✗ " + m.toast.message)
	default:
		return m.theme.StatusInfo.Render("ℹ " + m.toast.message)
	}
}
