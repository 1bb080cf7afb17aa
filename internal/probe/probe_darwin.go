//go:build darwin

package probe

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"worklog/internal/errors"
)

// frontmostScript resolves the frontmost app's short name and, best effort,
// its front window title. The title line is simply absent when System Events
// is denied access, so the app name still comes through.
const frontmostScript = `
use framework "AppKit"
use scripting additions

set frontApp to (info for (path to frontmost application))
set appName to short name of frontApp

set windowTitle to ""

try
	tell application "System Events"
		tell (first process whose frontmost is true)
			set windowTitle to name of front window
		end tell
	end tell
end try

return appName & linefeed & windowTitle
`

// frontAppScript returns just the frontmost process name.
const frontAppScript = `tell application "System Events" to get name of (first process whose frontmost is true)`

// windowsScript emits one tab-separated row per window of the frontmost
// process, front-to-back: title, x, y, width, height.
const windowsScript = `
tell application "System Events"
	tell (first process whose frontmost is true)
		set out to ""
		repeat with w in windows
			set p to position of w
			set s to size of w
			set out to out & (name of w) & tab & (item 1 of p) & tab & (item 2 of p) & tab & (item 1 of s) & tab & (item 2 of s) & linefeed
		end repeat
	end tell
end tell
return out
`

type darwinActivity struct{ timeout time.Duration }

// NewActivityProbe returns the macOS session-state probe.
func NewActivityProbe(timeout time.Duration) ActivityProbe {
	return &darwinActivity{timeout: timeout}
}

func (p *darwinActivity) ScreenLocked(ctx context.Context) (bool, error) {
	out, err := runOutput(ctx, p.timeout, "ioreg", "-n", "Root", "-d1", "-a")
	if err != nil {
		return false, err
	}
	return parseCGSessionLocked(out), nil
}

func (p *darwinActivity) IdleSeconds(ctx context.Context) (float64, error) {
	out, err := runOutput(ctx, p.timeout, "ioreg", "-c", "IOHIDSystem", "-d", "4")
	if err != nil {
		return 0, err
	}
	secs, ok := parseHIDIdleSeconds(out)
	if !ok {
		return 0, errors.New(errors.CodeUnavailable, "HIDIdleTime not present in ioreg output")
	}
	return secs, nil
}

type darwinWindows struct{ timeout time.Duration }

// NewWindowProbe returns the macOS foreground-window probe.
func NewWindowProbe(timeout time.Duration) WindowProbe {
	return &darwinWindows{timeout: timeout}
}

func (p *darwinWindows) Frontmost(ctx context.Context) (string, string, error) {
	out, err := runOutput(ctx, p.timeout, "osascript", "-e", frontmostScript)
	if err != nil {
		return "", "", err
	}
	app, title := parseFrontmost(out)
	if app == "" {
		return "", "", errors.New(errors.CodeUnavailable, "frontmost application not determinable")
	}
	return app, title, nil
}

// Windows enumerates the frontmost process's windows front-to-back. System
// Events cannot cheaply enumerate every process, and the resolver only
// matches windows of the foreground app anyway.
func (p *darwinWindows) Windows(ctx context.Context) ([]WindowInfo, error) {
	app, err := runOutput(ctx, p.timeout, "osascript", "-e", frontAppScript)
	if err != nil {
		return nil, err
	}
	out, err := runOutput(ctx, p.timeout, "osascript", "-e", windowsScript)
	if err != nil {
		return nil, err
	}
	app, _ = parseFrontmost(app)
	return parseWindowRows(app, out), nil
}

type darwinScreenshot struct{ timeout time.Duration }

// NewScreenshotProbe returns the macOS screencapture-backed probe.
func NewScreenshotProbe(timeout time.Duration) ScreenshotProbe {
	return &darwinScreenshot{timeout: timeout}
}

func (p *darwinScreenshot) CaptureDisplay(ctx context.Context, display int, dst string) error {
	// -x: no sound, -D: display ordinal (1-based, same ordering as topology)
	err := run(ctx, p.timeout, "screencapture", "-x", "-t", "png", "-D", strconv.Itoa(display), dst)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(dst); statErr != nil {
		return errors.Wrap(statErr, errors.CodeUnavailable, fmt.Sprintf("screencapture wrote no file for display %d", display))
	}
	return nil
}
