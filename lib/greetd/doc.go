// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package greetd implements the client side of the greetd IPC
// protocol: the wire codec, a session client bound to one login
// attempt, and the Authenticate orchestrator that drives a full
// create-session / answer-prompt / start-session exchange.
//
// The package is organized around the authentication data flow:
//
//   - protocol.go: wire format (length-prefixed JSON messages)
//   - client.go: connection ownership and the four daemon operations
//   - state.go: the auth conversation state after each exchange
//   - auth.go: the single-entry-point authentication flow
//   - errors.go: the failure taxonomy surfaced to the UI
//
// Every failure is returned as a typed *AuthError. Nothing in this
// package writes to the terminal or exits the process; the caller
// decides how to present failures and when to terminate.
package greetd
