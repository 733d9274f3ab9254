// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import "fmt"

// FailureKind classifies a terminal authentication failure.
type FailureKind int

const (
	// ConnectionFailed means the daemon endpoint is unreachable or
	// unconfigured. Fatal to the attempt; the user may retry, which
	// opens a brand-new connection.
	ConnectionFailed FailureKind = iota

	// ProtocolError means a malformed or unexpected message
	// sequence: a daemon/client version mismatch or a violated
	// protocol invariant. Fatal, surfaced verbatim.
	ProtocolError

	// AuthFailed means the daemon rejected the credentials or
	// reported an authentication error. Expected and recoverable by
	// re-entering credentials.
	AuthFailed
)

// String returns the kind name for logging.
func (k FailureKind) String() string {
	switch k {
	case ConnectionFailed:
		return "connection_failed"
	case ProtocolError:
		return "protocol_error"
	case AuthFailed:
		return "auth_failed"
	default:
		return fmt.Sprintf("failure_kind(%d)", int(k))
	}
}

// AuthError is the typed failure returned by every operation in this
// package. The UI switches on Kind to decide recovery behavior and
// shows Error() to the user.
type AuthError struct {
	Kind    FailureKind
	Message string
}

// Error renders the user-facing message. Authentication failures are
// shown bare (the message already reads like "Authentication
// failed"); connection and protocol failures carry a prefix naming
// the layer that broke.
func (e *AuthError) Error() string {
	switch e.Kind {
	case ConnectionFailed:
		return "Connection failed: " + e.Message
	case ProtocolError:
		return "Protocol error: " + e.Message
	default:
		return e.Message
	}
}

func connectionFailed(format string, args ...any) *AuthError {
	return &AuthError{Kind: ConnectionFailed, Message: fmt.Sprintf(format, args...)}
}

func protocolError(format string, args ...any) *AuthError {
	return &AuthError{Kind: ProtocolError, Message: fmt.Sprintf(format, args...)}
}

func authFailed(message string) *AuthError {
	return &AuthError{Kind: AuthFailed, Message: message}
}

// formatDaemonError maps a daemon error response to the user-facing
// message. An authentication error with an empty description is
// normalized to a literal "Authentication failed" so the UI never
// shows a blank reason; generic errors pass through as-is.
func formatDaemonError(kind ErrorKind, description string) string {
	if kind == ErrorKindAuth && description == "" {
		return "Authentication failed"
	}
	return description
}
