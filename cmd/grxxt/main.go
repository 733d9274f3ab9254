// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Grxxt is a minimal fullscreen greeter for greetd. It draws a login
// form on the console, runs the greetd authentication conversation
// over the socket in $GREETD_SOCK, and asks the daemon to start the
// configured session command on success.
//
// greetd spawns this binary directly; it is not normally invoked by
// hand. Configuration is read from /etc/greetd/grxxt.yaml (overridable
// with --config or $GRXXT_CONFIG), and every setting has a built-in
// default so the greeter comes up on an unconfigured machine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/grxxt/grxxt/lib/config"
	"github.com/grxxt/grxxt/lib/greetd"
	"github.com/grxxt/grxxt/lib/greeterui"
	"github.com/grxxt/grxxt/lib/lastlogin"
	"github.com/grxxt/grxxt/lib/power"
	"github.com/grxxt/grxxt/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "grxxt: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var logOutput string

	flagSet := pflag.NewFlagSet("grxxt", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the config file (default: $GRXXT_CONFIG, then "+config.DefaultPath+")")
	flagSet.StringVar(&logOutput, "log-output", "", "append JSON log records to this file instead of stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("grxxt")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	logger, closeLog, err := newLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := config.Load(configPath)
	if err != nil {
		// A bad config file must not lock the operator out of the
		// machine. Log it and come up with defaults.
		logger.Error("falling back to default configuration", "error", err)
		cfg = config.Default()
	}

	authenticate := func(username, password, sessionCommand string) error {
		return greetd.AuthenticateWithOptions(username, password, sessionCommand, greetd.Options{
			SocketPath:      cfg.Socket,
			AckInfoMessages: cfg.AckInfoMessages,
		})
	}

	powerControl := power.NewController(cfg.Power, logger)

	var lastUser *lastlogin.Cache
	if cfg.RememberUser {
		lastUser = lastlogin.New(cfg.StateDir)
	}

	model := greeterui.NewModel(cfg, authenticate, powerControl, lastUser, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running login screen: %w", err)
	}

	if finalModel, ok := final.(greeterui.Model); ok && finalModel.Authenticated() {
		logger.Info("session start accepted, exiting")
		return nil
	}

	// Exiting without a started session makes greetd respawn the
	// greeter. Exit clean either way; a non-zero status here only adds
	// noise to the daemon's log.
	logger.Info("exiting without a session")
	return nil
}

// newLogger builds the process logger. With --log-output, JSON records
// go to that file so the fullscreen UI keeps the terminal to itself.
// Otherwise stderr gets text when it is a terminal and JSON when it is
// redirected, which under greetd means JSON into the daemon's log.
func newLogger(logOutput string) (*slog.Logger, func(), error) {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}

	if logOutput != "" {
		file, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log output: %w", err)
		}
		return slog.New(slog.NewJSONHandler(file, options)), func() { file.Close() }, nil
	}

	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler), func() {}, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Grxxt — fullscreen console greeter for greetd.

Runs the greetd authentication conversation over $GREETD_SOCK and
starts the configured session on success. Normally spawned by greetd;
point greetd's default_session command at this binary.

Usage:
  grxxt [flags]

Flags:
%s
`, flagSet.FlagUsages())
}
