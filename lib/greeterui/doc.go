// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package greeterui implements the login screen as a bubbletea
// model: a username field, a password field, a clock header, and the
// power keys. The blocking authentication exchange runs inside a
// tea.Cmd so the "authenticating" frame is on screen before the IPC
// starts; its result comes back as a message.
//
// The model never talks to a socket directly. It calls an injected
// authenticate function, which in production is greetd.Authenticate
// and in tests is a recorder.
package greeterui
