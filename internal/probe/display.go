package probe

import (
	"image"

	"github.com/kbinani/screenshot"
)

// systemDisplays enumerates displays through the screenshot library, which
// reports each display's global-coordinate bounds with index 0 as primary.
// The library returns the same ordering for the life of the process, which
// keeps 1-based ordinals stable across ticks within a run.
type systemDisplays struct{}

// NewDisplayProbe returns the native display-topology probe.
func NewDisplayProbe() DisplayProbe { return systemDisplays{} }

func (systemDisplays) Bounds() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	bounds := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		bounds = append(bounds, screenshot.GetDisplayBounds(i))
	}
	return bounds
}
