// Package marker implements the pending-reboot flag shared between the
// reboot and cancel commands. The flag is a file at a well-known location:
// its existence means a firmware reboot is believed scheduled and not yet
// fired or cancelled. No locking is performed; two commands touching the
// store in the same instant can interleave.
package marker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// fileName is the fixed marker name under os.TempDir().
const fileName = "uefi-reboot-pending"

// Store reads and writes the marker file at a fixed path.
type Store struct {
	path string
}

// New returns a Store at the well-known location.
func New() *Store {
	return &Store{path: filepath.Join(os.TempDir(), fileName)}
}

// NewAt returns a Store rooted at an explicit path.
func NewAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the marker file location.
func (s *Store) Path() string { return s.path }

// Create writes the marker with the current time as payload, replacing any
// previous marker.
func (s *Store) Create() error {
	payload := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return os.WriteFile(s.path, []byte(payload), 0o600)
}

// Exists reports whether the marker is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// CreatedAt reads the creation timestamp payload. The payload is
// informational; decisions are made on Exists alone.
func (s *Store) CreatedAt() (time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("marker payload %q: %w", data, err)
	}
	return time.UnixMilli(ms), nil
}

// Clear removes the marker. A marker that is already absent counts as
// success.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
