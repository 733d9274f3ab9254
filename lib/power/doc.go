// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package power runs the poweroff, reboot and suspend commands bound
// to the greeter's power keys. Commands come from configuration and
// are spawned detached: the greeter never blocks on them, and a
// failing command is logged rather than surfaced as a login error.
package power
