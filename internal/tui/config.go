package tui

import (
	"github.com/Veraticus/budget-manager/internal/tui/themes"
)

// Config holds dashboard configuration.
type Config struct {
	Theme          themes.Theme
	CurrencySymbol string
	Width          int
	Height         int
}

// Option is a functional option for configuring the dashboard.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		CurrencySymbol: "$",
		Width:          100,
		Height:         30,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithCurrencySymbol sets the symbol prefixed to amounts. Empty keeps the default.
func WithCurrencySymbol(symbol string) Option {
	return func(c *Config) {
		if symbol != "" {
			c.CurrencySymbol = symbol
		}
	}
}

// WithSize sets the initial terminal size before the first resize event.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
