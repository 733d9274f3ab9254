// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds presentation primitives shared by the greeter's
// terminal UI: the color theme built from configuration and the
// terminal-capability fallback for bare virtual consoles.
package tui
