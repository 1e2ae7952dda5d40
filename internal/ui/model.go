// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui is the polishit terminal interface, a Bubble Tea program over
// a controller.Controller.
//
// The Bubble Tea update loop is the controller's owner goroutine: every
// controller call happens inside Update, and polish tasks run as commands
// whose results come back as messages.
package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/controller"
	"github.com/jeranaias/polishit/internal/ui/styles"
	"github.com/jeranaias/polishit/internal/util"
)

type screen int

const (
	screenMain screen = iota
	screenSettings
)

type pane int

const (
	paneInput pane = iota
	paneOutput
)

type settingsFocus int

const (
	focusKey settingsFocus = iota
	focusModels
)

const (
	minWidth  = 40
	minHeight = 16
)

// Options configures New.
type Options struct {
	Theme   *styles.Theme
	Logger  zerolog.Logger
	Version string
}

// Model is the root Bubble Tea model. It is used by pointer.
type Model struct {
	ctrl   *controller.Controller
	state  controller.State
	alerts *alertQueue
	theme  *styles.Theme
	logger zerolog.Logger

	keys    KeyMap
	help    help.Model
	input   textarea.Model
	output  viewport.Model
	spinner spinner.Model

	keyInput      textinput.Model
	models        []catalog.Model
	cursor        int
	settingsFocus settingsFocus

	screen  screen
	focus   pane
	version string

	flash    string
	flashSeq int

	width  int
	height int
}

// New builds the model and attaches it to ctrl as subscriber and notifier.
func New(ctrl *controller.Controller, opts Options) *Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}

	ta := textarea.New()
	ta.Placeholder = "Type or paste the text to polish..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	ki := textinput.New()
	ki.Placeholder = "sk-or-..."
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.Prompt = ""

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Spinner

	m := &Model{
		ctrl:     ctrl,
		alerts:   &alertQueue{},
		theme:    theme,
		logger:   opts.Logger.With().Str("component", "ui").Logger(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    ta,
		output:   viewport.New(0, 0),
		spinner:  sp,
		keyInput: ki,
		models:   catalog.Models(),
		version:  opts.Version,
	}

	ctrl.WithNotifier(m.alerts)
	ctrl.Subscribe(m.onState)
	m.state = ctrl.State()
	m.input.SetValue(m.state.OriginalText)
	m.resize(80, 24)
	return m
}

// onState mirrors controller state into the widgets.
func (m *Model) onState(s controller.State) {
	if m.input.Value() != s.OriginalText {
		m.input.SetValue(s.OriginalText)
	}
	if s.PolishedText != m.state.PolishedText {
		m.setOutput(s.PolishedText)
	}
	m.state = s
}

func (m *Model) setOutput(text string) {
	m.output.SetContent(util.WrapWidth(text, m.output.Width))
	m.output.GotoTop()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case resultMsg:
		m.ctrl.Complete(msg.res)
		return m, nil

	case spinner.TickMsg:
		if !m.state.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctrl.Cancel()
			return m, tea.Quit
		}
		if _, ok := m.alerts.current(); ok {
			if key.Matches(msg, m.keys.Dismiss) {
				m.alerts.dismiss()
			}
			return m, nil
		}
		if m.screen == screenSettings {
			return m, m.updateSettings(msg)
		}
		return m, m.updateMain(msg)
	}

	// Anything else (cursor blink) goes to the focused widget.
	return m, m.forward(msg)
}

func (m *Model) updateMain(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Polish):
		return m.startPolish()

	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.InFlight() {
			m.ctrl.Cancel()
			return m.setFlash("Cancelling...")
		}
		return nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyResult()

	case key.Matches(msg, m.keys.Clear):
		m.ctrl.ClearText()
		return nil

	case key.Matches(msg, m.keys.Focus):
		m.toggleFocus()
		return nil

	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
		return textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return nil
	}
	return m.forward(msg)
}

// forward passes msg to the focused widget and syncs the input text.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.screen == screenSettings:
		if m.settingsFocus == focusKey {
			m.keyInput, cmd = m.keyInput.Update(msg)
		}
	case m.focus == paneInput:
		m.input, cmd = m.input.Update(msg)
		m.ctrl.SetOriginalText(m.input.Value())
	default:
		m.output, cmd = m.output.Update(msg)
	}
	return cmd
}

func (m *Model) startPolish() tea.Cmd {
	m.ctrl.SetOriginalText(m.input.Value())
	spinning := m.state.IsLoading
	task := m.ctrl.RequestPolish()
	if task == nil {
		return nil
	}
	m.logger.Debug().Str("request_id", task.RequestID()).Msg("dispatching polish task")
	if spinning {
		// The superseded task's spinner loop is still ticking.
		return runTask(task)
	}
	return tea.Batch(runTask(task), m.spinner.Tick)
}

func (m *Model) copyResult() tea.Cmd {
	if m.state.PolishedText == "" {
		return m.setFlash("Nothing to copy yet")
	}
	if err := m.ctrl.CopyPolishedText(); err != nil {
		return m.setFlash("Copy failed: " + err.Error())
	}
	return m.setFlash("Copied to clipboard")
}

func (m *Model) toggleFocus() {
	if m.focus == paneInput {
		m.focus = paneOutput
		m.input.Blur()
		return
	}
	m.focus = paneInput
	m.input.Focus()
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashSeq++
	m.flash = text
	return expireFlash(m.flashSeq)
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Model) openSettings() {
	m.screen = screenSettings
	m.settingsFocus = focusKey
	m.keyInput.SetValue(m.state.APIKeyField)
	m.keyInput.CursorEnd()
	m.keyInput.Focus()
	m.input.Blur()

	m.cursor = 0
	for i, model := range m.models {
		if model.ID == m.state.SelectedModel.ID {
			m.cursor = i
			break
		}
	}
}

func (m *Model) closeSettings() {
	m.screen = screenMain
	m.keyInput.Blur()
	if m.focus == paneInput {
		m.input.Focus()
	}
}

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeSettings()
		return nil

	case key.Matches(msg, m.keys.Save):
		m.ctrl.SaveSettings(m.keyInput.Value(), m.models[m.cursor])
		m.closeSettings()
		return nil

	case key.Matches(msg, m.keys.Focus):
		if m.settingsFocus == focusKey {
			m.settingsFocus = focusModels
			m.keyInput.Blur()
		} else {
			m.settingsFocus = focusKey
			m.keyInput.Focus()
		}
		return nil

	case m.settingsFocus == focusModels && key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case m.settingsFocus == focusModels && key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
		return nil
	}
	return m.forward(msg)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = max(width, minWidth)
	m.height = max(height, minHeight)
	m.help.Width = m.width

	// Title, two pane labels, status bar and help take fixed rows; each
	// bordered pane adds two.
	helpRows := 1
	if m.help.ShowAll {
		helpRows = len(m.keys.FullHelp()[0])
	}
	free := m.height - 1 - 2 - 1 - helpRows - 4
	inputRows := max(free/2, 3)
	outputRows := max(free-inputRows, 3)

	inner := m.width - 4
	m.input.SetWidth(inner)
	m.input.SetHeight(inputRows)
	m.output.Width = inner
	m.output.Height = outputRows
	m.keyInput.Width = inner - 2
	m.setOutput(m.state.PolishedText)
}
