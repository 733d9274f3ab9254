// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import "fmt"

// AuthStateKind identifies where in the conversation the client is
// after an exchange: what the daemon just told us.
type AuthStateKind int

const (
	// StateNeedInput means the daemon wants an echoed answer.
	StateNeedInput AuthStateKind = iota

	// StateNeedSecret means the daemon wants a masked answer. This
	// is the expected state immediately after create_session for
	// password authentication.
	StateNeedSecret

	// StateInfo carries an informational message that requires an
	// empty acknowledgement before the conversation continues.
	StateInfo

	// StateError carries a conversation-level error message (PAM
	// failure text, lockout notices) requiring an acknowledgement.
	StateError

	// StateDone means authentication succeeded; the session may be
	// started. Terminal within the authentication phase.
	StateDone
)

// String returns the state name for logging.
func (k AuthStateKind) String() string {
	switch k {
	case StateNeedInput:
		return "need_input"
	case StateNeedSecret:
		return "need_secret"
	case StateInfo:
		return "info"
	case StateError:
		return "error"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("auth_state(%d)", int(k))
	}
}

// AuthState is the conversation state plus the daemon's prompt text
// (empty for Done). A transient value: produced and consumed within
// one attempt, never persisted.
type AuthState struct {
	Kind   AuthStateKind
	Prompt string
}

// stateForMessage maps a daemon auth message to the conversation
// state it puts the client in.
func stateForMessage(kind AuthMessageKind, prompt string) (AuthState, error) {
	switch kind {
	case MessageVisible:
		return AuthState{Kind: StateNeedInput, Prompt: prompt}, nil
	case MessageSecret:
		return AuthState{Kind: StateNeedSecret, Prompt: prompt}, nil
	case MessageInfo:
		return AuthState{Kind: StateInfo, Prompt: prompt}, nil
	case MessageError:
		return AuthState{Kind: StateError, Prompt: prompt}, nil
	default:
		return AuthState{}, fmt.Errorf("unknown auth message type %q", kind)
	}
}
