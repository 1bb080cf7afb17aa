// Package once guarantees at-most-once execution of a side-effecting action
// per logical identifier, across independent processes.
//
// The marker file holds one previously-processed identifier per line and only
// ever grows. An exclusive advisory lock on that file is the sole
// synchronization mechanism: the membership check and the mark happen under a
// single unbroken hold of the lock, otherwise two racing callers could both
// observe "not present" and both act.
package once

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"worklog/internal/errors"
)

// Guard is a persisted set of processed identifiers backed by one file.
type Guard struct {
	path string
}

// NewGuard creates a guard over the marker file at path.
func NewGuard(path string) *Guard {
	return &Guard{path: path}
}

// TestAndMark atomically checks whether id has been processed and, if not,
// marks it processed. True means the caller may proceed; false means some
// caller already did (or is doing) the work.
//
// Errors fail closed: the caller must neither proceed (it could double-act)
// nor silently skip (required work would be lost) — propagate and retry.
func (g *Guard) TestAndMark(id string) (bool, error) {
	if id == "" || strings.ContainsAny(id, "\r\n") {
		return false, errors.Newf(errors.CodeLock, "identifier must be a single non-empty line, got %q", id)
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "create marker dir")
	}

	fl := flock.New(g.path)
	if err := fl.Lock(); err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "acquire marker lock")
	}
	// Released on every exit path; a held lock would deadlock all later
	// callers.
	defer func() { _ = fl.Unlock() }()

	marked, err := g.contains(id)
	if err != nil {
		return false, err
	}
	if marked {
		return false, nil
	}

	f, err := os.OpenFile(g.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "open marker file")
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "append marker")
	}
	if err := f.Sync(); err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "flush marker")
	}
	return true, nil
}

// Marked reports whether id is already in the set, without marking it.
func (g *Guard) Marked(id string) (bool, error) {
	fl := flock.New(g.path)
	if err := fl.RLock(); err != nil {
		return false, errors.Wrap(err, errors.CodeLock, "acquire marker lock")
	}
	defer func() { _ = fl.Unlock() }()
	return g.contains(id)
}

func (g *Guard) contains(id string) (bool, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.CodeLock, "read marker file")
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == id {
			return true, nil
		}
	}
	return false, nil
}
