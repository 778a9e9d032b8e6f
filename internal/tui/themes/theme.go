// Package themes holds the colour schemes of the budget dashboard.
package themes

import "github.com/charmbracelet/lipgloss"

// Palette is the handful of colours a theme is derived from.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Faint   lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Income  lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Expense lipgloss.TerminalColor
}

// Theme holds the styles the dashboard renders with.
type Theme struct {
	Header   lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Box      lipgloss.Style

	// Income and Expense colour amounts by transaction type.
	Income  lipgloss.Style
	Expense lipgloss.Style

	// Status styles follow a category's budget level.
	StatusOK      lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
}

// New derives a theme from p.
func New(p Palette) Theme {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return Theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Accent).
			Padding(0, 1),
		Subtitle: fg(p.Accent).Bold(true).MarginTop(1),
		Bold:     lipgloss.NewStyle().Bold(true),
		Muted:    fg(p.Faint),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Income:        fg(p.Income),
		Expense:       fg(p.Expense),
		StatusOK:      fg(p.Income),
		StatusWarning: fg(p.Warning).Bold(true),
		StatusError:   fg(p.Expense).Bold(true),
	}
}

// Default is the dark-terminal theme.
var Default = New(Palette{
	Accent:  lipgloss.Color("#0ea5e9"),
	Text:    lipgloss.Color("#fafafa"),
	Faint:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),
	Income:  lipgloss.Color("#10b981"),
	Warning: lipgloss.Color("#f59e0b"),
	Expense: lipgloss.Color("#ef4444"),
})

// Mono renders without colour, for NO_COLOR terminals.
var Mono = New(Palette{
	Accent:  lipgloss.NoColor{},
	Text:    lipgloss.NoColor{},
	Faint:   lipgloss.NoColor{},
	Border:  lipgloss.NoColor{},
	Income:  lipgloss.NoColor{},
	Warning: lipgloss.NoColor{},
	Expense: lipgloss.NoColor{},
})
