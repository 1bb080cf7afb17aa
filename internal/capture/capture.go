// Package capture produces the per-tick screenshot: a full-display grab at
// native resolution, refined to the active window's region when geometry is
// known. Images are transient; they exist only for OCR consumption and are
// removed by the per-tick cleanup pass.
package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/display"
	"worklog/internal/errors"
	"worklog/internal/probe"
	"worklog/internal/trace"
)

// Capturer captures and crops display screenshots.
type Capturer struct {
	probe    probe.ScreenshotProbe
	displays *display.Mapper
	tmpDir   string
}

// NewCapturer creates a capturer writing transient PNGs under tmpDir.
func NewCapturer(p probe.ScreenshotProbe, displays *display.Mapper, tmpDir string) *Capturer {
	return &Capturer{probe: p, displays: displays, tmpDir: tmpDir}
}

// Capture grabs the given display (1-based ordinal) and returns the path of
// the written PNG. When windowBounds is present the image is cropped to the
// window's region in place; cropping is a refinement and any failure there
// degrades to the uncropped full-display image. A capture failure is a hard
// failure for this tick.
func (c *Capturer) Capture(ctx context.Context, displayIndex int, windowBounds *image.Rectangle) (string, error) {
	if err := os.MkdirAll(c.tmpDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeIO, "create tmp dir")
	}

	path := filepath.Join(c.tmpDir, fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405")))
	if err := c.probe.CaptureDisplay(ctx, displayIndex, path); err != nil {
		return "", err
	}

	if windowBounds != nil {
		if err := c.cropInPlace(path, displayIndex, *windowBounds); err != nil {
			trace.Logger(ctx).Warn("crop failed, keeping full-display image", "error", err)
		}
	}
	return path, nil
}

// cropInPlace crops the captured image to the window region, overwriting the
// file. Degenerate regions leave the file untouched.
func (c *Capturer) cropInPlace(path string, displayIndex int, win image.Rectangle) error {
	bounds, ok := c.displays.Bounds(displayIndex)
	if !ok {
		return errors.Newf(errors.CodeInvalidGeometry, "display %d not in topology", displayIndex)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "open capture")
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "decode capture")
	}

	crop, ok := CropRect(img.Bounds().Dx(), img.Bounds().Dy(), bounds, win)
	if !ok {
		// Clamping collapsed the region; the full image is the answer.
		return nil
	}

	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return errors.New(errors.CodeInvalidGeometry, "decoded image does not support cropping")
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "rewrite capture")
	}
	defer out.Close()
	if err := png.Encode(out, sub.SubImage(crop.Add(img.Bounds().Min))); err != nil {
		return errors.Wrap(err, errors.CodeIO, "encode crop")
	}
	return nil
}

// CropRect computes the pixel-space crop rectangle for a window on a display.
//
//  1. Window bounds are translated into display-relative coordinates.
//  2. The capture's pixel-to-point scale is computed per axis
//     (HiDPI screenshots carry more pixels than the display has points).
//  3. The translated bounds are scaled into pixel space.
//  4. The result is clamped to [0,imgW] x [0,imgH]; a stale or partially
//     off-screen window must never request pixels outside the image.
//
// ok is false when clamping collapses the region to non-positive width or
// height, in which case the caller keeps the full image.
func CropRect(imgW, imgH int, displayBounds, win image.Rectangle) (crop image.Rectangle, ok bool) {
	if displayBounds.Dx() <= 0 || displayBounds.Dy() <= 0 || imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}, false
	}

	rel := win.Sub(displayBounds.Min)
	scaleX := float64(imgW) / float64(displayBounds.Dx())
	scaleY := float64(imgH) / float64(displayBounds.Dy())

	crop = image.Rect(
		int(float64(rel.Min.X)*scaleX),
		int(float64(rel.Min.Y)*scaleY),
		int(float64(rel.Max.X)*scaleX),
		int(float64(rel.Max.Y)*scaleY),
	)
	crop = crop.Intersect(image.Rect(0, 0, imgW, imgH))
	if crop.Dx() <= 0 || crop.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return crop, true
}

// Cleanup removes leftover transient images from this and previous ticks.
// Individual delete failures are warnings, never tick failures.
func (c *Capturer) Cleanup(ctx context.Context) {
	log := trace.Logger(ctx)
	matches, err := filepath.Glob(filepath.Join(c.tmpDir, "screenshot_*.png"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			log.Warn("could not delete transient image", "path", m, "error", err)
		}
	}
}
