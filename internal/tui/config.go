package tui

import (
	"time"

	"github.com/Veraticus/spice-budget/internal/model"
	"github.com/Veraticus/spice-budget/internal/tui/themes"
)

// StateSource yields the state the dashboard renders, normally Store.Snapshot.
type StateSource func() model.AppState

// Defaults used until the terminal reports its size.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
	DefaultRecent = 8
)

// Config is what Options adjust before the model is built.
type Config struct {
	Theme themes.Theme
	// Now picks the month shown first and the target of the "this month" key.
	Now    func() time.Time
	Width  int
	Height int
	// Recent caps the transactions listed for the month on screen.
	Recent   int
	ShowHelp bool
}

// Option adjusts a Config.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Now:    time.Now,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Recent: DefaultRecent,
	}
}

// WithTheme replaces themes.Default.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.Now = now }
}

// WithSize sets the size used before the first resize message.
func WithSize(width, height int) Option {
	return func(c *Config) { c.Width, c.Height = width, height }
}

// WithRecent lists n transactions per month; n below 1 keeps the default.
func WithRecent(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Recent = n
		}
	}
}

// WithHelp opens the dashboard with the full key help expanded.
func WithHelp(show bool) Option {
	return func(c *Config) { c.ShowHelp = show }
}
