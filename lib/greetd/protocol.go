// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greetd

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// RequestType tags a request message on the wire.
type RequestType string

const (
	// RequestCreateSession begins an authentication attempt for a
	// username. The daemon replies with success, an auth message
	// prompt, or an error.
	RequestCreateSession RequestType = "create_session"

	// RequestPostAuthMessageResponse answers the most recent auth
	// message. The response field carries the answer (the password
	// for a secret prompt) or null to acknowledge an informational
	// message.
	RequestPostAuthMessageResponse RequestType = "post_auth_message_response"

	// RequestStartSession asks the daemon to launch the session
	// command for the authenticated user. Only valid once the
	// conversation has completed successfully.
	RequestStartSession RequestType = "start_session"

	// RequestCancelSession abandons the current attempt and releases
	// daemon-side session state.
	RequestCancelSession RequestType = "cancel_session"
)

// ResponseType tags a response message on the wire.
type ResponseType string

const (
	// ResponseSuccess acknowledges the previous request.
	ResponseSuccess ResponseType = "success"

	// ResponseError reports a failure. ErrorType distinguishes
	// authentication errors from generic daemon errors.
	ResponseError ResponseType = "error"

	// ResponseAuthMessage carries a prompt that must be answered
	// (or acknowledged) with a post_auth_message_response request.
	ResponseAuthMessage ResponseType = "auth_message"
)

// ErrorKind is the daemon's error classification.
type ErrorKind string

const (
	// ErrorKindAuth marks credential rejection and other PAM-level
	// authentication failures. Recoverable: the user may try again.
	ErrorKindAuth ErrorKind = "auth_error"

	// ErrorKindGeneric marks any other daemon-reported failure.
	ErrorKindGeneric ErrorKind = "error"
)

// AuthMessageKind classifies a daemon prompt.
type AuthMessageKind string

const (
	// MessageVisible requests an echoed answer (e.g., a username in
	// conversation-driven flows).
	MessageVisible AuthMessageKind = "visible"

	// MessageSecret requests a masked answer (a password or OTP).
	MessageSecret AuthMessageKind = "secret"

	// MessageInfo is informational; acknowledged with a null answer.
	MessageInfo AuthMessageKind = "info"

	// MessageError reports a non-fatal conversation error (lockout
	// notices, expiry warnings); acknowledged with a null answer.
	MessageError AuthMessageKind = "error"
)

// Request is one client-to-daemon message. Which fields are
// meaningful depends on Type; the JSON marshaling emits exactly the
// fields the daemon expects for each request type.
type Request struct {
	Type     RequestType
	Username string
	Response *string
	Cmd      []string
	Env      []string
}

// MarshalJSON encodes the request in greetd's tagged wire shape.
// The post_auth_message_response "response" field is always present,
// encoding null for an acknowledgement. start_session always carries
// cmd and env arrays, never null.
func (r Request) MarshalJSON() ([]byte, error) {
	switch r.Type {
	case RequestCreateSession:
		return json.Marshal(struct {
			Type     RequestType `json:"type"`
			Username string      `json:"username"`
		}{r.Type, r.Username})
	case RequestPostAuthMessageResponse:
		return json.Marshal(struct {
			Type     RequestType `json:"type"`
			Response *string     `json:"response"`
		}{r.Type, r.Response})
	case RequestStartSession:
		cmd := r.Cmd
		if cmd == nil {
			cmd = []string{}
		}
		env := r.Env
		if env == nil {
			env = []string{}
		}
		return json.Marshal(struct {
			Type RequestType `json:"type"`
			Cmd  []string    `json:"cmd"`
			Env  []string    `json:"env"`
		}{r.Type, cmd, env})
	case RequestCancelSession:
		return json.Marshal(struct {
			Type RequestType `json:"type"`
		}{r.Type})
	default:
		return nil, fmt.Errorf("unknown request type %q", r.Type)
	}
}

// UnmarshalJSON decodes any request shape into the full struct.
// Used by the daemon side of the wire (mock daemons in tests).
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type     RequestType `json:"type"`
		Username string      `json:"username"`
		Response *string     `json:"response"`
		Cmd      []string    `json:"cmd"`
		Env      []string    `json:"env"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Type = wire.Type
	r.Username = wire.Username
	r.Response = wire.Response
	r.Cmd = wire.Cmd
	r.Env = wire.Env
	return nil
}

// Response is one daemon-to-client message. ErrorType/Description
// are set for error responses; AuthMessageType/AuthMessage for auth
// message responses.
type Response struct {
	Type            ResponseType    `json:"type"`
	ErrorType       ErrorKind       `json:"error_type,omitempty"`
	Description     string          `json:"description,omitempty"`
	AuthMessageType AuthMessageKind `json:"auth_message_type,omitempty"`
	AuthMessage     string          `json:"auth_message,omitempty"`
}

// lengthPrefixSize is the fixed frame header: a uint32 payload length
// in the platform's native byte order (greetd inherited this framing
// from its Rust implementation; both ends run on the same machine so
// native order is unambiguous).
const lengthPrefixSize = 4

// maxPayloadSize caps a single message. Prompts and error
// descriptions are short strings; 1 MB is far beyond any legitimate
// message and bounds allocation on a corrupt length prefix.
const maxPayloadSize = 1024 * 1024

// writeFrame writes one length-prefixed payload to w.
func writeFrame(w io.Writer, payload []byte) error {
	var header [lengthPrefixSize]byte
	binary.NativeEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write message header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write message payload: %w", err)
	}
	return nil
}

// readFrame reads one length-prefixed payload from r. Returns an
// error on a truncated frame or a payload exceeding maxPayloadSize.
func readFrame(r io.Reader) ([]byte, error) {
	var header [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read message header: %w", err)
	}
	payloadLength := binary.NativeEndian.Uint32(header[:])
	if payloadLength > maxPayloadSize {
		return nil, fmt.Errorf("payload length %d exceeds maximum %d", payloadLength, maxPayloadSize)
	}
	payload := make([]byte, payloadLength)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read message payload: %w", err)
	}
	return payload, nil
}

// WriteRequest writes one framed request to w.
func WriteRequest(w io.Writer, request Request) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return writeFrame(w, payload)
}

// ReadResponse reads one framed response from r.
func ReadResponse(r io.Reader) (Response, error) {
	payload, err := readFrame(r)
	if err != nil {
		return Response{}, err
	}
	var response Response
	if err := json.Unmarshal(payload, &response); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return response, nil
}

// ReadRequest reads one framed request from r. This is the daemon
// side of the wire; the greeter itself never calls it, but mock
// daemons in tests do.
func ReadRequest(r io.Reader) (Request, error) {
	payload, err := readFrame(r)
	if err != nil {
		return Request{}, err
	}
	var request Request
	if err := json.Unmarshal(payload, &request); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	return request, nil
}

// WriteResponse writes one framed response to w. Daemon side of the
// wire, provided for tests.
func WriteResponse(w io.Writer, response Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return writeFrame(w, payload)
}
