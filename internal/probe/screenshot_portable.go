//go:build !darwin

package probe

import (
	"context"
	"image/png"
	"os"
	"time"

	"github.com/kbinani/screenshot"

	"worklog/internal/errors"
)

type portableScreenshot struct{ timeout time.Duration }

// NewScreenshotProbe returns a probe backed by the screenshot library.
// Capture is an in-process call; the timeout only bounds the PNG write.
func NewScreenshotProbe(timeout time.Duration) ScreenshotProbe {
	return &portableScreenshot{timeout: timeout}
}

func (p *portableScreenshot) CaptureDisplay(ctx context.Context, display int, dst string) error {
	if display < 1 || display > screenshot.NumActiveDisplays() {
		return errors.Newf(errors.CodeUnavailable, "display %d not connected", display)
	}

	img, err := screenshot.CaptureDisplay(display - 1)
	if err != nil {
		return errors.Wrapf(err, errors.CodeUnavailable, "capture display %d", display)
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeTimeout, "capture canceled")
	}

	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "create screenshot file")
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, errors.CodeIO, "encode screenshot")
	}
	return nil
}
