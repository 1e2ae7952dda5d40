// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli builds the polishit command tree.
//
// Every command shares one setup step: load the config, open the log, pick
// the credential store and build the polish client. Commands then drive a
// controller.Controller on the main goroutine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/config"
	"github.com/jeranaias/polishit/internal/controller"
	"github.com/jeranaias/polishit/internal/credentials"
	"github.com/jeranaias/polishit/internal/logging"
	"github.com/jeranaias/polishit/internal/polish"
)

// errReported means the failure was already printed; exit 1 quietly.
var errReported = errors.New("error already reported")

// Options configures the command tree.
type Options struct {
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Store replaces the credential store chosen from the config.
	Store credentials.Store
}

// app is the state shared by every command of one invocation.
type app struct {
	opts Options

	configPath string
	ephemeral  bool
	verbose    bool

	cfg    *config.Config
	log    *logging.Logger
	store  credentials.Store
	client *polish.Client
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, opts Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	lipgloss.SetColorProfile(colorProfile())

	a := &app{opts: opts}
	root := a.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		a.log.Close()
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errReported):
		return 1
	default:
		fmt.Fprintln(opts.Stderr, errorStyle.Render("Error:")+" "+err.Error())
		return 1
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "polishit",
		Short: "Polish text with an LLM from your terminal",
		Long: titleStyle.Render("Polish.It") + `

Improve clarity, fix grammar and keep the original meaning of any text,
using models available through OpenRouter. Free models work without an
API key; paid models need your own key, stored in the system keychain.

` + dimStyle.Render("Run without a command to open the interactive editor."),
		Version:           a.opts.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
		Args:              cobra.NoArgs,
		RunE:              func(cmd *cobra.Command, _ []string) error { return a.runTUI(cmd.Context()) },
	}
	root.SetIn(a.opts.Stdin)
	root.SetOut(a.opts.Stdout)
	root.SetErr(a.opts.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.polishit/config.toml)")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "keep the API key and model in memory only")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "also log to stderr")

	root.AddCommand(
		a.tuiCommand(),
		a.polishCommand(),
		a.modelsCommand(),
		a.modelCommand(),
		a.keyCommand(),
		a.configCommand(),
	)
	return root
}

// setup loads everything the commands share.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadOptional(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if err := catalog.Validate(); err != nil {
		return err
	}
	if a.cfg.Cloud.FreeTierKey != "" {
		catalog.SetFreeTierAccessKey(a.cfg.Cloud.FreeTierKey)
	}

	logFile, err := a.cfg.LogFile()
	if err != nil {
		return err
	}
	opts := logging.Options{File: logFile, Level: a.cfg.LogLevel()}
	if a.verbose {
		opts.Console = a.opts.Stderr
	}
	if a.log, err = logging.New(opts); err != nil {
		// A read-only home must not stop polishing.
		fmt.Fprintln(a.opts.Stderr, warningStyle.Render("Warning:")+" "+err.Error())
		a.log = logging.Nop()
	}

	switch {
	case a.opts.Store != nil:
		a.store = a.opts.Store
	case a.ephemeral:
		a.store = credentials.NewMemoryStore()
	default:
		a.store = credentials.NewKeyringStore(a.cfg.Keyring.Service)
	}

	a.client = polish.NewClient().
		WithBaseURL(a.cfg.Cloud.BaseURL).
		WithReferer(a.cfg.Cloud.Referer).
		WithTimeout(a.cfg.Timeout()).
		WithLogger(a.log.Component("polish"))

	a.log.Zerolog().Debug().
		Str("endpoint", a.client.Endpoint()).
		Bool("ephemeral", a.ephemeral).
		Msg("polishit starting")
	return nil
}

// newController builds a controller with the stored key and model loaded.
func (a *app) newController() *controller.Controller {
	ctrl := controller.New(a.client, a.store).
		WithLogger(a.log.Component("controller"))
	ctrl.LoadCredentials()
	return ctrl
}

// stderrNotifier prints controller alerts for headless commands.
func (a *app) stderrNotifier() controller.Notifier {
	return controller.NotifierFunc(func(al controller.Alert) {
		fmt.Fprintln(a.opts.Stderr, alertStyle(al.Level).Render(al.Title+":")+" "+al.Message)
	})
}
