// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import (
	"github.com/kballard/go-shellquote"
)

// maxInfoMessages bounds how many informational messages a single
// attempt will acknowledge when AckInfoMessages is enabled. A daemon
// looping on info messages would otherwise stall the greeter forever.
const maxInfoMessages = 16

// Options adjusts Authenticate behavior beyond the defaults.
type Options struct {
	// SocketPath overrides $GREETD_SOCK when non-empty.
	SocketPath string

	// AckInfoMessages, when true, acknowledges info and error auth
	// messages with an empty answer and continues the conversation
	// instead of failing the attempt. Additional visible or secret
	// prompts are still rejected: the greeter collects exactly one
	// password and cannot answer a second prompt.
	//
	// Off by default, matching the single-prompt flow. PAM stacks
	// that emit motd-style info messages need this enabled.
	AckInfoMessages bool
}

// Authenticate runs one full authentication attempt: connect, create
// a session for username, answer the password prompt, and on success
// ask the daemon to start sessionCommand. Blocking for the whole
// exchange; returns nil only when the daemon has accepted the
// session start, at which point the daemon owns the session and the
// caller should exit its event loop.
//
// Every failure is a *AuthError. A fresh call opens a brand-new
// connection; no state is carried between attempts.
func Authenticate(username, password, sessionCommand string) error {
	return AuthenticateWithOptions(username, password, sessionCommand, Options{})
}

// AuthenticateWithOptions is Authenticate with explicit Options.
func AuthenticateWithOptions(username, password, sessionCommand string, opts Options) error {
	client, err := connectWith(opts)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.CreateSession(username); err != nil {
		return err
	}

	state, err := client.PostAuthResponse(&password)
	if err != nil {
		client.Cancel()
		return err
	}

	if opts.AckInfoMessages {
		for range maxInfoMessages {
			if state.Kind != StateInfo && state.Kind != StateError {
				break
			}
			state, err = client.PostAuthResponse(nil)
			if err != nil {
				client.Cancel()
				return err
			}
		}
	}

	switch state.Kind {
	case StateDone:
		if err := client.StartSession(SplitCommand(sessionCommand), nil); err != nil {
			client.Cancel()
			return err
		}
		return nil
	case StateError:
		client.Cancel()
		return authFailed(state.Prompt)
	default:
		// The greeter supports exactly one password prompt. A second
		// prompt (or an unacknowledged info message) means the PAM
		// stack wants a conversation this client cannot hold.
		client.Cancel()
		return protocolError("unexpected auth state")
	}
}

func connectWith(opts Options) (*Client, error) {
	if opts.SocketPath != "" {
		return ConnectPath(opts.SocketPath)
	}
	return Connect()
}

// SplitCommand splits a configured session command line into argv
// words using shell-lexical quoting rules. A command that fails to
// split (unbalanced quotes) is used verbatim as a single argv
// element rather than rejected: a misquoted config should produce an
// exec error from the daemon, not a greeter crash.
func SplitCommand(commandLine string) []string {
	words, err := shellquote.Split(commandLine)
	if err != nil {
		return []string{commandLine}
	}
	return words
}
