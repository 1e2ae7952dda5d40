// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/polishit/internal/controller"
	"github.com/jeranaias/polishit/internal/ui/styles"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Purple)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Emerald)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Rose)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Amber)
	dimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// colorProfile honours NO_COLOR and drops colors when stdout is redirected.
func colorProfile() termenv.Profile {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	if !isTerminal(os.Stdout) {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

func alertStyle(level controller.Level) lipgloss.Style {
	switch level {
	case controller.LevelError:
		return errorStyle
	case controller.LevelWarning:
		return warningStyle
	default:
		return successStyle
	}
}
