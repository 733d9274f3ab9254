// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import (
	"net"
	"os"
	"time"
)

// SocketEnv is the environment variable greetd sets for its
// greeter children, naming the Unix socket the daemon listens on.
const SocketEnv = "GREETD_SOCK"

// dialTimeout is the maximum time to wait for a connection to the
// daemon socket. The daemon is local; if it does not accept within
// this window it is not coming.
const dialTimeout = 5 * time.Second

// responseTimeout bounds the wait for a single daemon response. The
// reference greeter waits forever; a bounded deadline is an
// intentional addition so a wedged daemon surfaces as a connection
// failure instead of a frozen login screen. Generous enough for slow
// PAM stacks (network-backed account lookups, faillock delays).
const responseTimeout = 60 * time.Second

// Client owns the connection for one authentication attempt. The
// protocol is strictly request/response: every send is followed by
// exactly one receive before the next send. A Client is not safe for
// concurrent use and is never reused across attempts.
type Client struct {
	conn net.Conn
}

// Connect opens a connection to the daemon socket named by
// $GREETD_SOCK. An unset or empty variable is a ConnectionFailed:
// the process was not started by greetd and has no endpoint.
func Connect() (*Client, error) {
	socketPath := os.Getenv(SocketEnv)
	if socketPath == "" {
		return nil, connectionFailed("%s not set", SocketEnv)
	}
	return ConnectPath(socketPath)
}

// ConnectPath opens a connection to the daemon socket at an explicit
// path (configuration override; tests).
func ConnectPath(socketPath string) (*Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.Dial("unix", socketPath)
	if err != nil {
		return nil, connectionFailed("%v", err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the connection. Safe to call after a failed
// exchange; any in-flight daemon state should be released with
// Cancel first.
func (c *Client) Close() error {
	return c.conn.Close()
}

// send writes one request. I/O and encoding failures are protocol
// errors; a write timeout means the daemon stopped draining the
// socket and is reported as a connection failure.
func (c *Client) send(request Request) error {
	c.conn.SetWriteDeadline(time.Now().Add(responseTimeout))
	if err := WriteRequest(c.conn, request); err != nil {
		if os.IsTimeout(err) {
			return connectionFailed("daemon not responding: %v", err)
		}
		return protocolError("%v", err)
	}
	return nil
}

// receive blocks until one full response arrives. Truncated frames
// and undecodable payloads are protocol errors; a deadline expiry is
// a connection failure.
func (c *Client) receive() (Response, error) {
	c.conn.SetReadDeadline(time.Now().Add(responseTimeout))
	response, err := ReadResponse(c.conn)
	if err != nil {
		if os.IsTimeout(err) {
			return Response{}, connectionFailed("daemon not responding: %v", err)
		}
		return Response{}, protocolError("%v", err)
	}
	return response, nil
}

// roundTrip performs one strict request/response exchange.
func (c *Client) roundTrip(request Request) (Response, error) {
	if err := c.send(request); err != nil {
		return Response{}, err
	}
	return c.receive()
}

// CreateSession begins an authentication attempt for username. Both
// a success response and an auth message mean "proceed": some PAM
// configurations need no prompt at all and reply success
// immediately. A daemon error maps to AuthFailed.
func (c *Client) CreateSession(username string) error {
	response, err := c.roundTrip(Request{
		Type:     RequestCreateSession,
		Username: username,
	})
	if err != nil {
		return err
	}
	switch response.Type {
	case ResponseSuccess, ResponseAuthMessage:
		return nil
	case ResponseError:
		return authFailed(formatDaemonError(response.ErrorType, response.Description))
	default:
		return protocolError("unexpected response %q to create_session", response.Type)
	}
}

// PostAuthResponse answers the pending auth message. answer carries
// the secret on the first exchange and nil thereafter to acknowledge
// informational messages. The returned state is what the daemon's
// reply puts the conversation into.
func (c *Client) PostAuthResponse(answer *string) (AuthState, error) {
	response, err := c.roundTrip(Request{
		Type:     RequestPostAuthMessageResponse,
		Response: answer,
	})
	if err != nil {
		return AuthState{}, err
	}
	switch response.Type {
	case ResponseSuccess:
		return AuthState{Kind: StateDone}, nil
	case ResponseAuthMessage:
		state, err := stateForMessage(response.AuthMessageType, response.AuthMessage)
		if err != nil {
			return AuthState{}, protocolError("%v", err)
		}
		return state, nil
	case ResponseError:
		return AuthState{}, authFailed(formatDaemonError(response.ErrorType, response.Description))
	default:
		return AuthState{}, protocolError("unexpected response %q to post_auth_message_response", response.Type)
	}
}

// StartSession hands the session command to the daemon. Success is
// the only accepted outcome: the daemon now owns starting the
// session and this process is expected to exit.
func (c *Client) StartSession(cmd []string, env []string) error {
	response, err := c.roundTrip(Request{
		Type: RequestStartSession,
		Cmd:  cmd,
		Env:  env,
	})
	if err != nil {
		return err
	}
	switch response.Type {
	case ResponseSuccess:
		return nil
	case ResponseError:
		return authFailed(formatDaemonError(response.ErrorType, response.Description))
	default:
		return protocolError("unexpected response")
	}
}

// Cancel abandons the attempt and releases daemon-side session
// state. Best-effort: this runs only on already-failing paths, so
// its own failures are swallowed.
func (c *Client) Cancel() {
	if err := c.send(Request{Type: RequestCancelSession}); err != nil {
		return
	}
	c.receive()
}
