// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/polishit/internal/ui"
	"github.com/jeranaias/polishit/internal/ui/styles"
)

func (a *app) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive editor (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *app) runTUI(ctx context.Context) error {
	if !isTerminal(a.opts.Stdin) || !isTerminal(a.opts.Stdout) {
		return errors.New("the interactive editor needs a terminal; use 'polishit polish' in scripts")
	}

	ctrl := a.newController().WithClipboard(ui.SystemClipboard{})
	model := ui.New(ctrl, ui.Options{
		Theme:   styles.NewTheme(a.cfg.UI.Theme),
		Logger:  *a.log.Zerolog(),
		Version: a.opts.Version,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.opts.Stdin),
		tea.WithOutput(a.opts.Stdout),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
