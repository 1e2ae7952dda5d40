// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles the TUI renders with.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Title    lipgloss.Style
	Subtitle lipgloss.Style

	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	PaneLabel   lipgloss.Style
	Placeholder lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style

	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	Spinner     lipgloss.Style

	FreeBadge lipgloss.Style
	PaidBadge lipgloss.Style
	Selected  lipgloss.Style
	Cursor    lipgloss.Style

	AlertInfo    lipgloss.Style
	AlertWarning lipgloss.Style
	AlertError   lipgloss.Style
}

// NewTheme detects the terminal and builds the styles. mode is "dark",
// "light" or "auto" (anything else); forced modes override detection.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()

	switch strings.ToLower(mode) {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{IsDark: isDark, ColorProfile: profile}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PaneFocused = t.Pane.BorderForeground(Purple)
	t.PaneLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)

	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)
	t.WarningText = lipgloss.NewStyle().Foreground(Amber)
	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)

	t.FreeBadge = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.PaidBadge = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.Selected = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.Cursor = lipgloss.NewStyle().Foreground(Cyan)

	alert := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		Padding(1, 3).
		Width(72)
	t.AlertInfo = alert.BorderForeground(Emerald)
	t.AlertWarning = alert.BorderForeground(Amber)
	t.AlertError = alert.BorderForeground(Rose)
}
