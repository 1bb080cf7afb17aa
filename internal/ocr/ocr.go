// Package ocr invokes the external text-extraction tool. The tool's
// internals are opaque: it receives an image path and prints plain text.
package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"worklog/internal/trace"
)

// Extractor shells out to the configured OCR binary.
type Extractor struct {
	tool    string
	timeout time.Duration
}

// NewExtractor creates an extractor for the tool at the given path.
func NewExtractor(tool string, timeout time.Duration) *Extractor {
	return &Extractor{tool: tool, timeout: timeout}
}

// ExtractText runs OCR on the image at path. Any failure or timeout yields
// an empty string; a tick without text is still worth recording.
func (e *Extractor) ExtractText(ctx context.Context, path string) string {
	log := trace.Logger(ctx)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.tool, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Warn("OCR timed out", "timeout", e.timeout)
		} else {
			log.Warn("OCR failed", "error", err, "stderr", stderr.String())
		}
		return ""
	}
	return strings.TrimSpace(stdout.String())
}
