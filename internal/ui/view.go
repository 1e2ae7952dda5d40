// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/controller"
	"github.com/jeranaias/polishit/internal/util"
)

const (
	appTitle          = "Polish.It"
	outputPlaceholder = "Polished text will appear here"
	keyFormatWarning  = "This doesn't look like an OpenRouter key (sk-...). It will be saved anyway."
)

// View implements tea.Model.
func (m *Model) View() string {
	if a, ok := m.alerts.current(); ok {
		return m.viewAlert(a)
	}
	if m.screen == screenSettings {
		return m.viewSettings()
	}
	return m.viewMain()
}

// =============================================================================
// MAIN SCREEN
// =============================================================================

func (m *Model) viewMain() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteByte('\n')

	b.WriteString(t.PaneLabel.Render("Original"))
	b.WriteByte('\n')
	b.WriteString(m.paneStyle(paneInput).Render(m.input.View()))
	b.WriteByte('\n')

	b.WriteString(t.PaneLabel.Render("Polished"))
	b.WriteByte('\n')
	var out string
	if m.state.PolishedText == "" {
		out = t.Placeholder.Render(outputPlaceholder)
	} else {
		out = m.output.View()
	}
	b.WriteString(m.paneStyle(paneOutput).
		Width(m.output.Width + 2).
		Height(m.output.Height).
		Render(out))
	b.WriteByte('\n')

	b.WriteString(m.viewStatus())
	b.WriteByte('\n')
	b.WriteString(t.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) viewTitle() string {
	title := m.theme.Title.Render(appTitle)
	if m.version != "" {
		title += " " + m.theme.Subtitle.Render("v"+m.version)
	}
	return title
}

func (m *Model) paneStyle(p pane) lipgloss.Style {
	if m.focus == p {
		return m.theme.PaneFocused
	}
	return m.theme.Pane
}

// viewStatus renders the one-line status bar: activity on the left, the
// selected model on the right.
func (m *Model) viewStatus() string {
	t := m.theme
	right := modelLabel(m.state.SelectedModel)
	rightW := lipgloss.Width(right)

	leftW := m.width - rightW - 3
	var left string
	switch {
	case m.state.IsLoading:
		left = m.spinner.View() + " " + util.TruncateWidth("Polishing with "+m.state.SelectedModel.DisplayName+"...", leftW-2)
	case m.state.ErrorMessage != "":
		left = t.ErrorText.Render(util.TruncateWidth(m.state.ErrorMessage, leftW))
	case m.flash != "":
		left = util.TruncateWidth(m.flash, leftW)
	default:
		left = util.TruncateWidth("Ready", leftW)
	}

	gap := m.width - 2 - lipgloss.Width(left) - rightW
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func modelLabel(model catalog.Model) string {
	tier := "paid"
	if model.Free {
		tier = "free"
	}
	return fmt.Sprintf("%s [%s]", model.DisplayName, tier)
}

// =============================================================================
// SETTINGS SCREEN
// =============================================================================

func (m *Model) viewSettings() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Settings"))
	b.WriteString("\n\n")

	keyPane := t.Pane
	if m.settingsFocus == focusKey {
		keyPane = t.PaneFocused
	}
	b.WriteString(t.PaneLabel.Render("OpenRouter API key"))
	b.WriteByte('\n')
	b.WriteString(keyPane.Width(m.width - 2).Render(m.keyInput.View()))
	b.WriteByte('\n')

	if v := strings.TrimSpace(m.keyInput.Value()); v != "" && !util.LooksLikeAPIKey(v) {
		b.WriteString(t.WarningText.Render(keyFormatWarning))
	} else {
		b.WriteString(t.Placeholder.Render("Leave empty to use free models only. The key is kept in the system keychain."))
	}
	b.WriteString("\n\n")

	b.WriteString(t.PaneLabel.Render("Model"))
	b.WriteByte('\n')
	for i, model := range m.models {
		b.WriteString(m.viewModelRow(i, model))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(t.Help.Render(m.help.View(settingsHelp{m.keys})))
	return b.String()
}

func (m *Model) viewModelRow(i int, model catalog.Model) string {
	t := m.theme
	cursor := "  "
	if i == m.cursor {
		cursor = t.Cursor.Render("› ")
	}

	name := util.TruncateWidth(model.DisplayName, m.width-14)
	if i == m.cursor && m.settingsFocus == focusModels {
		name = t.Selected.Render(name)
	}

	badge := t.PaidBadge.Render("paid")
	if model.Free {
		badge = t.FreeBadge.Render("free")
	}

	current := ""
	if model.ID == m.state.SelectedModel.ID {
		current = t.Help.Render(" (current)")
	}
	return cursor + name + " " + badge + current
}

// =============================================================================
// ALERT
// =============================================================================

func (m *Model) viewAlert(a controller.Alert) string {
	t := m.theme
	style := t.AlertInfo
	switch a.Level {
	case controller.LevelWarning:
		style = t.AlertWarning
	case controller.LevelError:
		style = t.AlertError
	}
	if w := m.width - 4; w < style.GetWidth() {
		style = style.Width(w)
	}

	body := t.Title.Render(a.Title) + "\n\n" + a.Message + "\n\n" + t.Help.Render("Enter to dismiss")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, style.Render(body))
}
