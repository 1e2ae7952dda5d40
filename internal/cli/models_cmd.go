// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/credentials"
)

const freeTierKeyNote = "no free-tier access key is configured, so free models will be rejected with 401. " +
	"Set cloud.free_tier_key in the config or POLISHIT_FREE_TIER_KEY to an OpenRouter key."

func (a *app) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models you can polish with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected := a.selectedModel()
			def := catalog.Default()

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("", "ID", "NAME", "TIER")
			for _, m := range catalog.Models() {
				marker := ""
				if m.ID == selected.ID {
					marker = "*"
				}
				tier := "paid"
				if m.Free {
					tier = "free"
				}
				if m.ID == def.ID {
					tier += " (default)"
				}
				t.Row(marker, m.ID, m.DisplayName, tier)
			}

			fmt.Fprintln(a.opts.Stdout, t.Render())
			fmt.Fprintln(a.opts.Stdout, dimStyle.Render("* selected. Change with 'polishit model <id>'."))
			a.printFreeTierNote()
			return nil
		},
	}
}

func (a *app) modelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "model <id>",
		Short: "Select the model used for polishing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, ok := catalog.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown model %q (see 'polishit models')", args[0])
			}
			if err := a.store.SaveSelectedModelID(model.ID); err != nil {
				return fmt.Errorf("failed to save selected model: %w", err)
			}

			fmt.Fprintln(a.opts.Stdout, successStyle.Render("✓")+" Selected "+model.DisplayName)
			if !model.Free && !a.hasAPIKey() {
				fmt.Fprintln(a.opts.Stderr, warningStyle.Render("Warning:")+" this is a paid model; set a key with 'polishit key set'")
			}
			return nil
		},
	}
}

// printFreeTierNote says so when free models would be sent the
// placeholder access key.
func (a *app) printFreeTierNote() {
	if catalog.UsingBuiltInFreeTierKey() {
		fmt.Fprintln(a.opts.Stdout, warningStyle.Render("Note:")+" "+freeTierKeyNote)
	}
}

// selectedModel returns the stored selection or the default.
func (a *app) selectedModel() catalog.Model {
	id, err := a.store.SelectedModelID()
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		a.log.Zerolog().Warn().Err(err).Msg("failed to read selected model")
	}
	return catalog.Resolve(id)
}

func (a *app) hasAPIKey() bool {
	key, err := a.store.APIKey()
	return err == nil && key != ""
}
