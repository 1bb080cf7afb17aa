//go:build linux

package probe

import (
	"context"
	"strings"
	"time"

	"worklog/internal/errors"
)

type linuxActivity struct{ timeout time.Duration }

// NewActivityProbe returns the Linux session-state probe.
func NewActivityProbe(timeout time.Duration) ActivityProbe {
	return &linuxActivity{timeout: timeout}
}

func (p *linuxActivity) ScreenLocked(ctx context.Context) (bool, error) {
	out, err := runOutput(ctx, p.timeout, "loginctl", "show-session", "self", "-p", "LockedHint")
	if err != nil {
		return false, err
	}
	return parseLockedHint(out), nil
}

func (p *linuxActivity) IdleSeconds(ctx context.Context) (float64, error) {
	out, err := runOutput(ctx, p.timeout, "xprintidle")
	if err != nil {
		return 0, err
	}
	secs, ok := parseMillis(out)
	if !ok {
		return 0, errors.Newf(errors.CodeUnavailable, "unexpected xprintidle output %q", strings.TrimSpace(out))
	}
	return secs, nil
}

type linuxWindows struct{ timeout time.Duration }

// NewWindowProbe returns the Linux (X11) foreground-window probe.
func NewWindowProbe(timeout time.Duration) WindowProbe {
	return &linuxWindows{timeout: timeout}
}

func (p *linuxWindows) Frontmost(ctx context.Context) (string, string, error) {
	id, err := runOutput(ctx, p.timeout, "xdotool", "getactivewindow")
	if err != nil {
		return "", "", err
	}
	id = strings.TrimSpace(id)

	cls, err := runOutput(ctx, p.timeout, "xprop", "-id", id, "WM_CLASS")
	if err != nil {
		return "", "", err
	}
	app := parseWMClass(cls)
	if app == "" {
		return "", "", errors.New(errors.CodeUnavailable, "active window has no WM_CLASS")
	}

	// Title stays best effort; the app name alone is still a usable sample.
	title := ""
	if out, err := runOutput(ctx, p.timeout, "xdotool", "getwindowname", id); err == nil {
		title = strings.TrimRight(out, "\n")
	}
	return app, title, nil
}

func (p *linuxWindows) Windows(ctx context.Context) ([]WindowInfo, error) {
	out, err := runOutput(ctx, p.timeout, "wmctrl", "-lGx")
	if err != nil {
		return nil, err
	}
	return parseWmctrl(out), nil
}
