// Package cli renders budget data for the terminal: styled messages, tables,
// money formatting, prompts and interrupt handling.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spice-budget/internal/derive"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#6366F1") // indigo
	SuccessColor = lipgloss.Color("#10B981") // emerald: income, healthy categories
	WarningColor = lipgloss.Color("#F59E0B") // amber: at or above the alert threshold
	ErrorColor   = lipgloss.Color("#F43F5E") // rose: over the limit, failures
	InfoColor    = lipgloss.Color("#38BDF8")
	SubtleColor  = lipgloss.Color("#64748B")
	BorderColor  = lipgloss.Color("#334155")
)

var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	BoldStyle     = lipgloss.NewStyle().Bold(true)
	PromptStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	BoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💰"
	ChartIcon   = "📊"
	GoalIcon    = "🎯"
)

var levelStyles = map[derive.Level]lipgloss.Style{
	derive.LevelOK:       SuccessStyle,
	derive.LevelWarning:  WarningStyle,
	derive.LevelExceeded: ErrorStyle,
}

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

// FormatError prefixes message with a cross.
func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section title after the wallet icon.
func FormatTitle(title string) string { return withIcon(TitleStyle, WalletIcon, title) }

// FormatPrompt renders a question waiting for input.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// LevelStyle returns the colour of a category's budget level.
func LevelStyle(level derive.Level) lipgloss.Style {
	if style, ok := levelStyles[level]; ok {
		return style
	}
	return SuccessStyle
}

// FormatLevel renders text in the colour of level.
func FormatLevel(level derive.Level, text string) string {
	return LevelStyle(level).Render(text)
}

// RenderBox draws content under title inside a rounded border.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
