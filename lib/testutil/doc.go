// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds small helpers shared by tests. Nothing here
// is imported by production code.
package testutil
