// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the greeter configuration.
//
// The config file path is resolved in order:
//   - --config flag passed to the command
//   - GRXXT_CONFIG environment variable
//   - /etc/greetd/grxxt.yaml
//
// A missing file is not an error: the greeter must come up with
// built-in defaults on an unconfigured machine, because a broken
// login screen locks the operator out. A file that exists but does
// not parse is an error, surfaced to the caller so it can log and
// fall back.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the default
// config file location.
const EnvVar = "GRXXT_CONFIG"

// DefaultPath is where the greeter looks for its config when neither
// the --config flag nor GRXXT_CONFIG is set. It lives under
// /etc/greetd next to the daemon's own config.
const DefaultPath = "/etc/greetd/grxxt.yaml"

// Config is the full greeter configuration.
type Config struct {
	// Session configures the command started on successful login.
	Session SessionConfig `yaml:"session"`

	// Socket overrides $GREETD_SOCK when non-empty. Normally unset:
	// greetd tells its greeter where the socket is.
	Socket string `yaml:"socket"`

	// AckInfoMessages forwards to the authentication flow: when
	// true, informational PAM messages are acknowledged instead of
	// failing the attempt. See greetd.Options.
	AckInfoMessages bool `yaml:"ack_info_messages"`

	// Theme configures the color palette.
	Theme ThemeConfig `yaml:"theme"`

	// Power configures the commands bound to the power keys.
	Power PowerConfig `yaml:"power"`

	// RememberUser enables prefilling the username field with the
	// last successfully logged-in user.
	RememberUser bool `yaml:"remember_user"`

	// StateDir is where the greeter persists its small state files
	// (the last-user cache). Must be writable by the greeter user.
	StateDir string `yaml:"state_dir"`
}

// SessionConfig configures the user session.
type SessionConfig struct {
	// Command is the session command line, split with shell quoting
	// rules before being handed to the daemon.
	Command string `yaml:"command"`
}

// ThemeConfig holds the palette as "#rrggbb" hex strings. Malformed
// values fall back to the built-in palette entry at theme build time;
// they never prevent the greeter from starting.
type ThemeConfig struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Accent     string `yaml:"accent"`
	Error      string `yaml:"error"`
}

// PowerConfig holds the command lines bound to the power keys. Empty
// string disables the key.
type PowerConfig struct {
	Poweroff string `yaml:"poweroff"`
	Reboot   string `yaml:"reboot"`
	Suspend  string `yaml:"suspend"`
}

// Default returns the built-in configuration. File values merge over
// these, so every field has a working default.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Command: "/usr/local/bin/start-hyprland.sh",
		},
		Theme: ThemeConfig{
			Background: "#0b0a13",
			Foreground: "#f6f1e3",
			Accent:     "#f1c35f",
			Error:      "#d14b64",
		},
		Power: PowerConfig{
			Poweroff: "systemctl poweroff",
			Reboot:   "systemctl reboot",
			Suspend:  "systemctl suspend",
		},
		RememberUser: true,
		StateDir:     "/var/lib/grxxt",
	}
}

// Load resolves the config path (flagPath, then $GRXXT_CONFIG, then
// DefaultPath) and loads it. flagPath may be empty.
func Load(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile loads configuration from an explicit path, merging file
// values over Default. A missing file returns the defaults; a file
// that cannot be read or parsed returns an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
