// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package greeterui

import (
	"os"

	"golang.org/x/sys/unix"
)

// readSystemInfo returns the hostname and kernel release for the
// header, the same identity line agetty prints from /etc/issue. Both
// degrade to empty strings; the login form works without them.
func readSystemInfo() (hostname, kernel string) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		hostname, _ = os.Hostname()
		return hostname, ""
	}
	return unix.ByteSliceToString(uts.Nodename[:]), unix.ByteSliceToString(uts.Release[:])
}
