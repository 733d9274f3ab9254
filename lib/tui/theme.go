// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/grxxt/grxxt/lib/config"
)

// Theme is the greeter's color palette. Colors are lipgloss values
// ready to drop into styles; on truecolor terminals they carry the
// configured hex values, on 16-color consoles they degrade to a
// basic ANSI palette chosen for legibility rather than letting
// quantization pick the nearest (often muddy) match.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the built-in palette, used when configuration is
// absent or malformed.
var DefaultTheme = Theme{
	Background: lipgloss.Color("#0b0a13"),
	Foreground: lipgloss.Color("#f6f1e3"),
	Accent:     lipgloss.Color("#f1c35f"),
	Error:      lipgloss.Color("#d14b64"),
}

// consoleTheme is the 16-color fallback for bare virtual consoles,
// where greeters most often run.
var consoleTheme = Theme{
	Background: lipgloss.Color("0"),  // black
	Foreground: lipgloss.Color("7"),  // white
	Accent:     lipgloss.Color("11"), // bright yellow
	Error:      lipgloss.Color("9"),  // bright red
}

// FromConfig builds the theme from configuration. Malformed hex
// values fall back to the corresponding DefaultTheme entry; a
// terminal without 256-color support gets consoleTheme regardless of
// configuration.
func FromConfig(cfg config.ThemeConfig) Theme {
	return themeForProfile(cfg, termenv.ColorProfile())
}

// themeForProfile is FromConfig with the capability probe injected,
// so tests do not depend on the terminal running them.
func themeForProfile(cfg config.ThemeConfig, profile termenv.Profile) Theme {
	if profile == termenv.ANSI || profile == termenv.Ascii {
		return consoleTheme
	}
	return Theme{
		Background: parseHex(cfg.Background, DefaultTheme.Background),
		Foreground: parseHex(cfg.Foreground, DefaultTheme.Foreground),
		Accent:     parseHex(cfg.Accent, DefaultTheme.Accent),
		Error:      parseHex(cfg.Error, DefaultTheme.Error),
	}
}

// parseHex validates a "#rrggbb" string, returning fallback on
// anything else.
func parseHex(value string, fallback lipgloss.Color) lipgloss.Color {
	if len(value) != 7 || value[0] != '#' {
		return fallback
	}
	for _, c := range value[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return fallback
		}
	}
	return lipgloss.Color(value)
}
