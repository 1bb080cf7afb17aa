// Package pipeline runs one acquisition tick: decide whether the workstation
// is active, resolve the foreground window, capture its display, extract
// text, and append the sample to the durable log.
package pipeline

import (
	"context"
	"os"
	"time"

	"worklog/internal/activity"
	"worklog/internal/capture"
	"worklog/internal/dedup"
	"worklog/internal/display"
	"worklog/internal/ocr"
	"worklog/internal/record"
	"worklog/internal/trace"
	"worklog/internal/window"
)

// Pipeline owns the stages of one tick. Each stage degrades independently;
// only a capture or append failure aborts the tick.
type Pipeline struct {
	gate     *activity.Gate
	windows  *window.Resolver
	displays *display.Mapper
	capturer *capture.Capturer
	dedup    *dedup.Detector
	ocr      *ocr.Extractor
	recorder *record.Writer

	now func() time.Time
}

// New assembles a pipeline from its stages.
func New(
	gate *activity.Gate,
	windows *window.Resolver,
	displays *display.Mapper,
	capturer *capture.Capturer,
	dd *dedup.Detector,
	extractor *ocr.Extractor,
	recorder *record.Writer,
) *Pipeline {
	return &Pipeline{
		gate:     gate,
		windows:  windows,
		displays: displays,
		capturer: capturer,
		dedup:    dd,
		ocr:      extractor,
		recorder: recorder,
		now:      time.Now,
	}
}

// Tick performs one acquisition cycle. A gated tick (locked or idle
// workstation) is a successful no-op. Transient screenshots are removed
// whether or not the tick succeeds.
func (p *Pipeline) Tick(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "pipeline.tick")
	defer span.End()
	log := trace.Logger(ctx)

	if skip, why := p.gate.ShouldSkip(ctx); skip {
		log.Info("tick gated", "reason", why.String())
		span.SetAttr("gated", why.String())
		return nil
	}

	info := p.windows.Resolve(ctx)
	if info == nil {
		// A sample with empty window fields still carries the screenshot
		// text; losing the whole tick would be worse.
		log.Warn("no foreground window info this tick")
		info = &window.Info{}
	}
	span.SetAttr("app", info.App)

	displayIndex := p.displays.ForActiveWindow(info.Geometry)

	defer p.capturer.Cleanup(ctx)

	shot, err := p.capturer.Capture(ctx, displayIndex, info.Geometry)
	if err != nil {
		return err
	}

	text := p.extractText(ctx, shot)

	sample := record.Sample{
		Timestamp:   p.now().Format(time.RFC3339),
		App:         info.App,
		WindowTitle: info.Title,
		Display:     displayIndex,
		OCRText:     text,
	}
	if err := p.recorder.Append(sample); err != nil {
		return err
	}
	log.Info("sample recorded", "app", info.App, "display", displayIndex, "ocr_chars", len(text))
	return nil
}

// extractText runs OCR on the screenshot, reusing the previous tick's text
// when the frame is perceptually unchanged. OCR output is best-effort; an
// empty string still yields a valid sample.
func (p *Pipeline) extractText(ctx context.Context, shot string) string {
	data, err := os.ReadFile(shot)
	if err != nil {
		trace.Logger(ctx).Warn("read screenshot for dedup failed", "error", err)
		return p.ocr.ExtractText(ctx, shot)
	}

	if skip, prev := p.dedup.ShouldSkipOCR(ctx, data); skip {
		trace.Logger(ctx).Debug("frame unchanged, reusing previous text")
		return prev
	}

	text := p.ocr.ExtractText(ctx, shot)
	p.dedup.Store(ctx, data, text)
	return text
}
