// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package lastlogin persists the username of the last successful
// login so the greeter can prefill the username field. The cache is
// strictly best-effort: any load failure yields an empty prefill and
// save failures are reported but never block a login.
package lastlogin
