// Package window resolves the foreground application, its window title, and
// best-effort window geometry in global coordinates.
package window

import (
	"context"
	"image"
	"strings"

	"worklog/internal/probe"
	"worklog/internal/trace"
)

// Info is the foreground snapshot for one tick. It is constructed fresh each
// tick and never mutated. Geometry is nil when the OS denied introspection or
// no plausible window passed the filter; downstream capture then falls back
// to the whole display.
type Info struct {
	App      string
	Title    string
	Geometry *image.Rectangle
}

// Resolver identifies the active application and window.
type Resolver struct {
	probe   probe.WindowProbe
	minSize int
}

// NewResolver creates a resolver. minSize filters out windows whose width or
// height does not exceed it (toolbars, palettes, decorative surfaces).
func NewResolver(p probe.WindowProbe, minSize int) *Resolver {
	return &Resolver{probe: p, minSize: minSize}
}

// Resolve returns the foreground info, or nil when even the application
// cannot be determined. Callers treat nil as "no information this tick" and
// still record with empty strings rather than aborting.
func (r *Resolver) Resolve(ctx context.Context) *Info {
	log := trace.Logger(ctx)

	app, title, err := r.probe.Frontmost(ctx)
	if err != nil {
		log.Warn("could not resolve foreground application", "error", err)
		return nil
	}

	info := &Info{App: app, Title: title}

	windows, err := r.probe.Windows(ctx)
	if err != nil {
		log.Debug("window enumeration failed, geometry unknown", "error", err)
		return info
	}
	if g := r.selectWindow(app, windows); g != nil {
		info.Geometry = g
	}
	return info
}

// selectWindow picks the first window, front-to-back, owned by the resolved
// app and larger than the minimum size on both axes.
func (r *Resolver) selectWindow(app string, windows []probe.WindowInfo) *image.Rectangle {
	for _, w := range windows {
		if !appsMatch(app, w.App) {
			continue
		}
		if w.Bounds.Dx() <= r.minSize || w.Bounds.Dy() <= r.minSize {
			continue
		}
		bounds := w.Bounds
		return &bounds
	}
	return nil
}

// appsMatch tolerates short-name vs display-name mismatches: exact match or
// substring containment in either direction, case-insensitive.
func appsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
