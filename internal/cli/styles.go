// Package cli holds the terminal presentation shared by ccgen commands:
// lipgloss styles, notifications, clipboard access and progress output.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette, kept in step with the form's default theme.
var (
	accent  = lipgloss.Color("#14b8a6")
	green   = lipgloss.Color("#10b981")
	amber   = lipgloss.Color("#f59e0b")
	red     = lipgloss.Color("#ef4444")
	blue    = lipgloss.Color("#3b82f6")
	outline = lipgloss.Color("#404040")
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	successStyle = lipgloss.NewStyle().Foreground(green)
	warningStyle = lipgloss.NewStyle().Foreground(amber)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(red)
	infoStyle    = lipgloss.NewStyle().Foreground(blue)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(12)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(outline).
			Padding(0, 1)
)

// Message and heading icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "•"
	CardIcon    = "💳"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess renders a success line.
func FormatSuccess(message string) string { return withIcon(successStyle, SuccessIcon, message) }

// FormatError renders an error line.
func FormatError(message string) string { return withIcon(errorStyle, ErrorIcon, message) }

// FormatWarning renders a warning line.
func FormatWarning(message string) string { return withIcon(warningStyle, WarningIcon, message) }

// FormatInfo renders an informational line.
func FormatInfo(message string) string { return withIcon(infoStyle, InfoIcon, message) }

// FormatField renders a fixed-width label followed by its value.
func FormatField(label, value string) string {
	return labelStyle.Render(label) + value
}

// RenderBox frames content under a heading.
func RenderBox(heading, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, headingStyle.Render(heading), content))
}
