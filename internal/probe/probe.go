// Package probe abstracts the OS queries the acquisition pipeline depends on.
//
// Each capability is a small interface so platform implementations (native
// library calls or subprocess invocations) can be substituted, and so tests
// can inject deterministic fakes without touching real OS facilities. Every
// external call is bounded by an explicit timeout and degrades to an error
// the caller maps to its documented fallback.
package probe

import (
	"context"
	"image"
)

// ActivityProbe answers session-state questions for the activity gate.
type ActivityProbe interface {
	// ScreenLocked reports whether the session is locked.
	ScreenLocked(ctx context.Context) (bool, error)
	// IdleSeconds returns seconds since the last user input.
	IdleSeconds(ctx context.Context) (float64, error)
}

// WindowInfo describes one on-screen window in global coordinates.
type WindowInfo struct {
	App    string
	Title  string
	Bounds image.Rectangle
}

// WindowProbe resolves foreground-window information.
type WindowProbe interface {
	// Frontmost returns the frontmost application's short name and, best
	// effort, its front window title (empty when undeterminable).
	Frontmost(ctx context.Context) (app, title string, err error)
	// Windows enumerates on-screen windows in front-to-back order.
	Windows(ctx context.Context) ([]WindowInfo, error)
}

// DisplayProbe enumerates connected displays.
type DisplayProbe interface {
	// Bounds returns each display's global-coordinate bounds (top-left
	// origin) in a stable order; index 0 is the primary display.
	Bounds() []image.Rectangle
}

// ScreenshotProbe captures one full display at native resolution.
type ScreenshotProbe interface {
	// CaptureDisplay writes display (1-based ordinal) as PNG to dst.
	CaptureDisplay(ctx context.Context, display int, dst string) error
}
