//go:build !darwin && !linux

package probe

import (
	"context"
	"time"

	"worklog/internal/errors"
)

// Session and window introspection are not implemented on this platform.
// The probes report Unavailable so the pipeline falls back: the gate fails
// open and the resolver records empty strings with whole-display capture.

type stubActivity struct{}

func NewActivityProbe(time.Duration) ActivityProbe { return stubActivity{} }

func (stubActivity) ScreenLocked(context.Context) (bool, error) {
	return false, errors.New(errors.CodeUnavailable, "lock-state query not implemented on this platform")
}

func (stubActivity) IdleSeconds(context.Context) (float64, error) {
	return 0, errors.New(errors.CodeUnavailable, "idle-time query not implemented on this platform")
}

type stubWindows struct{}

func NewWindowProbe(time.Duration) WindowProbe { return stubWindows{} }

func (stubWindows) Frontmost(context.Context) (string, string, error) {
	return "", "", errors.New(errors.CodeUnavailable, "window introspection not implemented on this platform")
}

func (stubWindows) Windows(context.Context) ([]WindowInfo, error) {
	return nil, errors.New(errors.CodeUnavailable, "window enumeration not implemented on this platform")
}
