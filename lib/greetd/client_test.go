// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grxxt/grxxt/lib/testutil"
)

// exchange is one scripted request/response pair served by the mock
// daemon. verify, when set, inspects the decoded request before the
// reply is sent.
type exchange struct {
	expect RequestType
	reply  Response
	verify func(Request) error
}

var successReply = Response{Type: ResponseSuccess}

func secretPrompt(prompt string) Response {
	return Response{
		Type:            ResponseAuthMessage,
		AuthMessageType: MessageSecret,
		AuthMessage:     prompt,
	}
}

func infoMessage(text string) Response {
	return Response{
		Type:            ResponseAuthMessage,
		AuthMessageType: MessageInfo,
		AuthMessage:     text,
	}
}

func authError(description string) Response {
	return Response{
		Type:        ResponseError,
		ErrorType:   ErrorKindAuth,
		Description: description,
	}
}

// startMockDaemon listens on a Unix socket and serves one scripted
// conversation per expected connection. Cancel_session requests
// arriving after a script completes are acknowledged and ignored
// (the client cancels best-effort on failure paths). Script
// violations surface as test failures when the daemon goroutine is
// reaped during cleanup.
//
// The socket lives under os.MkdirTemp rather than t.TempDir: deep
// test working directories can push a t.TempDir path past the Unix
// socket path length limit.
func startMockDaemon(t *testing.T, scripts ...[]exchange) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "grxxt-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	socketPath := filepath.Join(dir, "greetd.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen on %s: %v", socketPath, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- serveScripts(listener, scripts)
	}()

	t.Cleanup(func() {
		if err := testutil.RequireReceive(t, done, 5*time.Second, "mock daemon exit"); err != nil {
			t.Errorf("mock daemon: %v", err)
		}
	})
	t.Cleanup(func() { listener.Close() })

	return socketPath
}

func serveScripts(listener net.Listener, scripts [][]exchange) error {
	for connection, script := range scripts {
		conn, err := listener.Accept()
		if err != nil {
			// Listener closed before the test connected; nothing to verify.
			return nil
		}
		if err := serveScript(conn, script); err != nil {
			conn.Close()
			return fmt.Errorf("connection %d: %w", connection, err)
		}
		conn.Close()
	}
	return nil
}

func serveScript(conn net.Conn, script []exchange) error {
	for _, step := range script {
		request, err := ReadRequest(conn)
		if err != nil {
			return fmt.Errorf("reading request (expecting %q): %w", step.expect, err)
		}
		if request.Type != step.expect {
			return fmt.Errorf("got request %q, expected %q", request.Type, step.expect)
		}
		if step.verify != nil {
			if err := step.verify(request); err != nil {
				return fmt.Errorf("request %q: %w", request.Type, err)
			}
		}
		if err := WriteResponse(conn, step.reply); err != nil {
			return fmt.Errorf("writing reply to %q: %w", step.expect, err)
		}
	}
	// Drain the best-effort cancel (if any) and wait for the client
	// to hang up.
	for {
		request, err := ReadRequest(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// The client closing mid-frame still counts as a hangup.
			return nil
		}
		if request.Type != RequestCancelSession {
			return fmt.Errorf("unexpected trailing request %q", request.Type)
		}
		if err := WriteResponse(conn, successReply); err != nil {
			return fmt.Errorf("acknowledging cancel: %w", err)
		}
	}
}

func requireKind(t *testing.T, err error, kind FailureKind) *AuthError {
	t.Helper()
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v (%T), want *AuthError", err, err)
	}
	if authErr.Kind != kind {
		t.Fatalf("failure kind = %v, want %v (message %q)", authErr.Kind, kind, authErr.Message)
	}
	return authErr
}

func TestConnectWithoutSocketEnv(t *testing.T) {
	t.Setenv(SocketEnv, "")
	_, err := Connect()
	authErr := requireKind(t, err, ConnectionFailed)
	if authErr.Message != "GREETD_SOCK not set" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestConnectUnreachableSocket(t *testing.T) {
	t.Setenv(SocketEnv, filepath.Join(t.TempDir(), "absent.sock"))
	_, err := Connect()
	requireKind(t, err, ConnectionFailed)
}

func TestCreateSessionProceedsOnSuccessAndPrompt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		reply Response
	}{
		{name: "immediate success", reply: successReply},
		{name: "secret prompt", reply: secretPrompt("Password:")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			socketPath := startMockDaemon(t, []exchange{
				{expect: RequestCreateSession, reply: test.reply},
			})
			client, err := ConnectPath(socketPath)
			if err != nil {
				t.Fatalf("ConnectPath: %v", err)
			}
			defer client.Close()
			if err := client.CreateSession("alice"); err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
		})
	}
}

func TestCreateSessionDaemonError(t *testing.T) {
	t.Parallel()
	socketPath := startMockDaemon(t, []exchange{
		{expect: RequestCreateSession, reply: authError("unknown user")},
	})
	client, err := ConnectPath(socketPath)
	if err != nil {
		t.Fatalf("ConnectPath: %v", err)
	}
	defer client.Close()
	authErr := requireKind(t, client.CreateSession("nobody"), AuthFailed)
	if authErr.Message != "unknown user" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestPostAuthResponseStates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		reply      Response
		wantKind   AuthStateKind
		wantPrompt string
	}{
		{name: "success is done", reply: successReply, wantKind: StateDone},
		{
			name:       "visible prompt",
			reply:      Response{Type: ResponseAuthMessage, AuthMessageType: MessageVisible, AuthMessage: "Username:"},
			wantKind:   StateNeedInput,
			wantPrompt: "Username:",
		},
		{
			name:       "secret prompt",
			reply:      secretPrompt("OTP:"),
			wantKind:   StateNeedSecret,
			wantPrompt: "OTP:",
		},
		{
			name:       "info message",
			reply:      infoMessage("Your password expires tomorrow"),
			wantKind:   StateInfo,
			wantPrompt: "Your password expires tomorrow",
		},
		{
			name:       "error message",
			reply:      Response{Type: ResponseAuthMessage, AuthMessageType: MessageError, AuthMessage: "Account locked"},
			wantKind:   StateError,
			wantPrompt: "Account locked",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			socketPath := startMockDaemon(t, []exchange{
				{expect: RequestPostAuthMessageResponse, reply: test.reply},
			})
			client, err := ConnectPath(socketPath)
			if err != nil {
				t.Fatalf("ConnectPath: %v", err)
			}
			defer client.Close()

			answer := "secret"
			state, err := client.PostAuthResponse(&answer)
			if err != nil {
				t.Fatalf("PostAuthResponse: %v", err)
			}
			if state.Kind != test.wantKind {
				t.Errorf("state = %v, want %v", state.Kind, test.wantKind)
			}
			if state.Prompt != test.wantPrompt {
				t.Errorf("prompt = %q, want %q", state.Prompt, test.wantPrompt)
			}
		})
	}
}

func TestPostAuthResponseEmptyDescriptionNormalized(t *testing.T) {
	t.Parallel()
	socketPath := startMockDaemon(t, []exchange{
		{expect: RequestPostAuthMessageResponse, reply: authError("")},
	})
	client, err := ConnectPath(socketPath)
	if err != nil {
		t.Fatalf("ConnectPath: %v", err)
	}
	defer client.Close()

	answer := "wrong"
	_, err = client.PostAuthResponse(&answer)
	authErr := requireKind(t, err, AuthFailed)
	if authErr.Message != "Authentication failed" {
		t.Errorf("message = %q, want normalized %q", authErr.Message, "Authentication failed")
	}
}

func TestStartSessionRejectsUnexpectedResponse(t *testing.T) {
	t.Parallel()
	socketPath := startMockDaemon(t, []exchange{
		{expect: RequestStartSession, reply: secretPrompt("Password:")},
	})
	client, err := ConnectPath(socketPath)
	if err != nil {
		t.Fatalf("ConnectPath: %v", err)
	}
	defer client.Close()

	err = client.StartSession([]string{"/bin/sh"}, nil)
	authErr := requireKind(t, err, ProtocolError)
	if authErr.Message != "unexpected response" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestStartSessionDaemonError(t *testing.T) {
	t.Parallel()
	socketPath := startMockDaemon(t, []exchange{
		{expect: RequestStartSession, reply: Response{
			Type:        ResponseError,
			ErrorType:   ErrorKindGeneric,
			Description: "no such session command",
		}},
	})
	client, err := ConnectPath(socketPath)
	if err != nil {
		t.Fatalf("ConnectPath: %v", err)
	}
	defer client.Close()

	authErr := requireKind(t, client.StartSession([]string{"/bin/definitely-absent"}, nil), AuthFailed)
	if authErr.Message != "no such session command" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestReceiveTruncatedFrameIsProtocolError(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "grxxt-test-")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	socketPath := filepath.Join(dir, "greetd.sock")

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	done := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		if _, err := ReadRequest(conn); err != nil {
			done <- err
			return
		}
		// Write half a frame header, then hang up.
		_, err = conn.Write([]byte{0x10, 0x00})
		done <- err
	}()

	client, err := ConnectPath(socketPath)
	if err != nil {
		t.Fatalf("ConnectPath: %v", err)
	}
	defer client.Close()

	err = client.CreateSession("alice")
	requireKind(t, err, ProtocolError)
	if serveErr := testutil.RequireReceive(t, done, 5*time.Second, "half-frame daemon exit"); serveErr != nil {
		t.Errorf("mock daemon: %v", serveErr)
	}
}
