// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/polishit/internal/credentials"
	"github.com/jeranaias/polishit/internal/util"
)

const keyFormatWarning = "this doesn't look like an OpenRouter key (expected sk-... of at least 32 characters)"

func (a *app) keyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the OpenRouter API key in the system keychain",
	}
	cmd.AddCommand(a.keySetCommand(), a.keyDeleteCommand(), a.keyStatusCommand())
	return cmd
}

func (a *app) keySetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key (prompts when omitted)",
		Long: `Store the OpenRouter API key in the system keychain.

Passing the key as an argument leaves it in your shell history; omit it to
be prompted, or pipe it on stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = strings.TrimSpace(args[0])
			} else {
				var err error
				key, err = readSecret(a.opts.Stdin, a.opts.Stderr, "OpenRouter API key: ")
				if err != nil {
					return err
				}
			}
			if key == "" {
				return errors.New("no key given; use 'polishit key delete' to remove the stored key")
			}

			if !util.LooksLikeAPIKey(key) {
				fmt.Fprintln(a.opts.Stderr, warningStyle.Render("Warning:")+" "+keyFormatWarning)
			}
			if err := a.store.SaveAPIKey(key); err != nil {
				return fmt.Errorf("failed to save API key: %w", err)
			}
			a.log.Zerolog().Info().Str("key_fp", util.Fingerprint(key)).Msg("API key saved")
			fmt.Fprintf(a.opts.Stdout, "%s API key saved (fingerprint %s)\n", successStyle.Render("✓"), util.Fingerprint(key))
			return nil
		},
	}
}

func (a *app) keyDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.DeleteAPIKey(); err != nil {
				return fmt.Errorf("failed to remove API key: %w", err)
			}
			a.log.Zerolog().Info().Msg("API key removed")
			fmt.Fprintln(a.opts.Stdout, successStyle.Render("✓")+" API key removed; only free models are available")
			return nil
		},
	}
}

func (a *app) keyStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a key is stored (never prints the key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.opts.Stdout
			if ks, ok := a.store.(*credentials.KeyringStore); ok {
				fmt.Fprintf(out, "Keychain service: %s\n", ks.Service())
			}

			key, err := a.store.APIKey()
			switch {
			case errors.Is(err, credentials.ErrNotFound) || (err == nil && key == ""):
				fmt.Fprintln(out, "API key:          "+dimStyle.Render("not set (free models only)"))
			case err != nil:
				return fmt.Errorf("failed to read API key: %w", err)
			default:
				fmt.Fprintf(out, "API key:          set (fingerprint %s)\n", util.Fingerprint(key))
				if !util.LooksLikeAPIKey(key) {
					fmt.Fprintln(a.opts.Stderr, warningStyle.Render("Warning:")+" "+keyFormatWarning)
				}
			}

			fmt.Fprintf(out, "Selected model:   %s\n", a.selectedModel())
			a.printFreeTierNote()
			return nil
		},
	}
}
