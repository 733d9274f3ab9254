// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package power

import (
	"log/slog"
	"os/exec"

	"github.com/kballard/go-shellquote"

	"github.com/grxxt/grxxt/lib/config"
)

// Controller dispatches power actions to their configured commands.
type Controller struct {
	logger   *slog.Logger
	poweroff []string
	reboot   []string
	suspend  []string
}

// NewController splits the configured command lines into argv words.
// A command that fails to split disables its key (logged once here);
// an empty command disables its key silently.
func NewController(cfg config.PowerConfig, logger *slog.Logger) *Controller {
	return &Controller{
		logger:   logger,
		poweroff: splitAction(cfg.Poweroff, "poweroff", logger),
		reboot:   splitAction(cfg.Reboot, "reboot", logger),
		suspend:  splitAction(cfg.Suspend, "suspend", logger),
	}
}

func splitAction(commandLine, action string, logger *slog.Logger) []string {
	if commandLine == "" {
		return nil
	}
	words, err := shellquote.Split(commandLine)
	if err != nil {
		logger.Warn("power command disabled",
			"action", action,
			"command", commandLine,
			"error", err,
		)
		return nil
	}
	return words
}

// Poweroff runs the configured poweroff command.
func (c *Controller) Poweroff() { c.run("poweroff", c.poweroff) }

// Reboot runs the configured reboot command.
func (c *Controller) Reboot() { c.run("reboot", c.reboot) }

// Suspend runs the configured suspend command.
func (c *Controller) Suspend() { c.run("suspend", c.suspend) }

// run spawns the command detached. The child outlives the greeter on
// poweroff/reboot by design; there is nothing to wait for.
func (c *Controller) run(action string, argv []string) {
	if len(argv) == 0 {
		return
	}
	command := exec.Command(argv[0], argv[1:]...)
	if err := command.Start(); err != nil {
		c.logger.Error("power command failed",
			"action", action,
			"command", argv[0],
			"error", err,
		)
		return
	}
	if err := command.Process.Release(); err != nil {
		c.logger.Warn("releasing power command process",
			"action", action,
			"error", err,
		)
	}
}
