// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/ui"
)

var errNoText = errors.New("no text to polish: pass it as arguments or pipe it on stdin")

func (a *app) polishCommand() *cobra.Command {
	var (
		modelID string
		copyOut bool
	)
	cmd := &cobra.Command{
		Use:   "polish [text...]",
		Short: "Polish text from arguments or stdin and print the result",
		Example: `  polishit polish "their going to the store tomorow"
  pbpaste | polishit polish --model openai/gpt-4o-mini`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				piped, err := a.readInput()
				if err != nil {
					return err
				}
				text = piped
			}
			if strings.TrimSpace(text) == "" {
				return errNoText
			}

			ctrl := a.newController().WithNotifier(a.stderrNotifier())
			if copyOut {
				ctrl.WithClipboard(ui.SystemClipboard{})
			}
			if modelID != "" {
				model, ok := catalog.Lookup(modelID)
				if !ok {
					return fmt.Errorf("unknown model %q (see 'polishit models')", modelID)
				}
				ctrl.UseModel(model)
			}

			ctrl.SetOriginalText(text)
			task := ctrl.RequestPolish()
			if task == nil {
				// Validation failed and the notifier already said why.
				return errReported
			}

			ctx := cmd.Context()
			stop := context.AfterFunc(ctx, task.Cancel)
			defer stop()
			if ctx.Err() != nil {
				task.Cancel()
			}

			res := task.Run()
			interrupted := task.Cancelled()
			ctrl.Complete(res)

			st := ctrl.State()
			switch {
			case interrupted:
				return errors.New("request cancelled")
			case st.ErrorMessage != "":
				fmt.Fprintln(a.opts.Stderr, errorStyle.Render(st.ErrorMessage))
				return errReported
			}

			fmt.Fprintln(a.opts.Stdout, st.PolishedText)
			if copyOut {
				if err := ctrl.CopyPolishedText(); err != nil {
					fmt.Fprintln(a.opts.Stderr, warningStyle.Render("Warning:")+" could not copy: "+err.Error())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model id for this run only (default: the selected model)")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "also copy the result to the clipboard")
	return cmd
}

func (a *app) readInput() (string, error) {
	if isTerminal(a.opts.Stdin) {
		return "", errNoText
	}
	return readPiped(a.opts.Stdin)
}
