// Package display maps windows to the display that contains them.
//
// All displays share one global coordinate space with a top-left origin, the
// same space window geometry is resolved in. Ordinals are 1-based and follow
// the probe's stable enumeration order, so an index means the same physical
// display for the life of the process.
package display

import (
	"image"

	"worklog/internal/probe"
)

// PrimaryIndex is the fallback display when containment fails.
const PrimaryIndex = 1

// Mapper assigns windows to displays.
type Mapper struct {
	probe probe.DisplayProbe
}

// NewMapper creates a mapper over the given topology.
func NewMapper(p probe.DisplayProbe) *Mapper {
	return &Mapper{probe: p}
}

// Count returns the number of connected displays.
func (m *Mapper) Count() int {
	return len(m.probe.Bounds())
}

// Bounds returns the global bounds of the display with the given 1-based
// ordinal.
func (m *Mapper) Bounds(index int) (image.Rectangle, bool) {
	all := m.probe.Bounds()
	if index < 1 || index > len(all) {
		return image.Rectangle{}, false
	}
	return all[index-1], true
}

// ForWindow returns the ordinal of the display whose bounds contain the
// window's top-left origin. Containment is tested against the origin, not
// the centroid: window managers keep origins inside a display in practice,
// though a window straddling an edge with most of its body on the adjacent
// display will be attributed to the origin's display. Off-screen or stale
// origins fall back to the primary display rather than failing the tick.
func (m *Mapper) ForWindow(geometry image.Rectangle) int {
	for i, bounds := range m.probe.Bounds() {
		if geometry.Min.In(bounds) {
			return i + 1
		}
	}
	return PrimaryIndex
}

// ForActiveWindow resolves the display for a possibly-absent geometry:
// with geometry it behaves like ForWindow, without it the primary display
// is assumed.
func (m *Mapper) ForActiveWindow(geometry *image.Rectangle) int {
	if geometry == nil {
		return PrimaryIndex
	}
	return m.ForWindow(*geometry)
}
