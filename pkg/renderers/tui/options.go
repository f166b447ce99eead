package tui

import (
	"github.com/fatih/color"
)

// Theme holds the prefixes printed before shell messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme colors prefixes when the terminal supports it.
func DefaultTheme() Theme {
	return Theme{
		InfoPrefix:  color.CyanString("i"),
		ErrorPrefix: color.RedString("!"),
	}
}

// Option configures the shell.
type Option func(*Shell)

// WithPromptDriver overrides the prompt driver used by the shell.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Shell) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Shell) {
		s.theme = theme
	}
}

// WithColor toggles colors in the list output.
func WithColor(enabled bool) Option {
	return func(s *Shell) {
		s.colored = enabled
	}
}
