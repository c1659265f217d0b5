// Package themes holds the lipgloss styles used by the interactive form.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Label         lipgloss.Style
	FocusedLabel  lipgloss.Style
	Disabled      lipgloss.Style
	Value         lipgloss.Style
	ToggleOn      lipgloss.Style
	ToggleOff     lipgloss.Style
	Output        lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Hint          lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary: lipgloss.Color("#14b8a6"),
	Success: lipgloss.Color("#10b981"),
	Error:   lipgloss.Color("#ef4444"),
	Info:    lipgloss.Color("#3b82f6"),
	Border:  lipgloss.Color("#404040"),
	Muted:   lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4d4d4")).
		Width(12),
	FocusedLabel: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#14b8a6")).
		Width(12),
	Disabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#525252")),
	Value: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	ToggleOn: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#14b8a6")),
	ToggleOff: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Hint: lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#737373")),

	// Containers
	Output: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	// Status styles
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),
	StatusError: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ef4444")),
	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
}

// Plain drops every color for terminals that set NO_COLOR. Layout widths and
// borders match Default.
var Plain = Theme{
	Title:         lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Subtitle:      lipgloss.NewStyle(),
	Label:         lipgloss.NewStyle().Width(12),
	FocusedLabel:  lipgloss.NewStyle().Bold(true).Width(12),
	Disabled:      lipgloss.NewStyle().Faint(true),
	Value:         lipgloss.NewStyle(),
	ToggleOn:      lipgloss.NewStyle().Bold(true),
	ToggleOff:     lipgloss.NewStyle(),
	Hint:          lipgloss.NewStyle().Italic(true),
	Output:        lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	StatusInfo:    lipgloss.NewStyle(),
	StatusError:   lipgloss.NewStyle().Bold(true),
	StatusSuccess: lipgloss.NewStyle(),
}

// ForEnv returns Plain when NO_COLOR is set to any non-empty value.
func ForEnv(lookup func(string) (string, bool)) Theme {
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		return Plain
	}
	return Default
}
