// Copyright 2026 The Grxxt Authors
// SPDX-License-Identifier: Apache-2.0

package lastlogin

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// cacheFile is the file name under the configured state directory.
const cacheFile = "lastlogin"

// recordVersion is bumped when the record layout changes. A record
// with an unknown version is treated as absent, not an error.
const recordVersion = 1

// record is the on-disk CBOR payload.
type record struct {
	Version   int       `cbor:"version"`
	Username  string    `cbor:"username"`
	UpdatedAt time.Time `cbor:"updated_at"`
}

// Cache reads and writes the last-user record in one state
// directory.
type Cache struct {
	path string
}

// New returns a cache rooted at stateDir. The directory is created
// lazily on first save.
func New(stateDir string) *Cache {
	return &Cache{path: filepath.Join(stateDir, cacheFile)}
}

// Load returns the cached username, or "" when the cache is absent,
// unreadable, corrupt, or from an unknown record version. The
// greeter prefill must never fail because of a bad cache file.
func (c *Cache) Load() string {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return ""
	}
	var rec record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return ""
	}
	if rec.Version != recordVersion {
		return ""
	}
	return rec.Username
}

// Save writes the username atomically (temp file + rename) so a
// poweroff mid-write cannot leave a torn record.
func (c *Cache) Save(username string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := cbor.Marshal(record{
		Version:   recordVersion,
		Username:  username,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding last-login record: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing last-login record: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing last-login record: %w", err)
	}
	return nil
}
