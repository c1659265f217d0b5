package tui

import (
	"time"

	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/formatter"
	"github.com/Veraticus/ccgen/internal/tui/themes"
)

// DefaultBalance is the balance range the form resets to.
const DefaultBalance = "500-1000"

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Orchestrator *engine.Orchestrator
	Now          func() time.Time
	Format       formatter.Tag
	Balance      string
	ToastTTL     time.Duration
	Quantity     int
	Width        int
	Height       int
	DateEnabled  bool
	CVCEnabled   bool
	MoneyEnabled bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Now:         time.Now,
		Format:      formatter.Pipe,
		Balance:     DefaultBalance,
		Quantity:    engine.DefaultQuantity,
		ToastTTL:    3 * time.Second,
		Width:       80,
		Height:      24,
		DateEnabled: true,
		CVCEnabled:  true,
	}
}

// WithOrchestrator sets the engine the form drives.
func WithOrchestrator(o *engine.Orchestrator) Option {
	return func(c *Config) {
		c.Orchestrator = o
	}
}

// WithDefaults sets the values the form starts with and resets to.
func WithDefaults(quantity int, format formatter.Tag, balance string) Option {
	return func(c *Config) {
		if quantity > 0 {
			c.Quantity = quantity
		}
		if format != "" {
			c.Format = format
		}
		if balance != "" {
			c.Balance = balance
		}
	}
}

// WithToggles sets the initial state of the date, CVC and money toggles.
func WithToggles(date, cvc, money bool) Option {
	return func(c *Config) {
		c.DateEnabled = date
		c.CVCEnabled = cvc
		c.MoneyEnabled = money
	}
}

// WithClock overrides the clock used for month and year options.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithSize sets the initial terminal dimensions.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTheme sets a custom theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}
