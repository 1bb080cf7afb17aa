// Package dedup skips the expensive OCR step when the screen has not
// meaningfully changed since the previous tick.
//
// Each tick is a separate process, so the previous frame's perception hash
// and extracted text are persisted in a small state file under the tmp dir.
// Similarity is a Hamming distance on 64-bit perception hashes; anything at
// or under the threshold counts as the same screen and the stored text is
// reused. Every failure path answers "don't skip" so a broken state file can
// only cost one extra OCR run.
package dedup

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg" // decoder for probe backends emitting JPEG
	_ "image/png"  // decoder
	"os"
	"path/filepath"

	"github.com/corona10/goimagehash"

	"worklog/internal/trace"
)

const stateFile = ".lastframe.json"

// Detector compares the current frame against the previous tick's.
type Detector struct {
	statePath   string
	maxDistance int
}

// NewDetector creates a detector persisting state under tmpDir.
func NewDetector(tmpDir string, maxDistance int) *Detector {
	return &Detector{
		statePath:   filepath.Join(tmpDir, stateFile),
		maxDistance: maxDistance,
	}
}

type frameState struct {
	Hash uint64 `json:"hash"`
	Text string `json:"text"`
}

// ShouldSkipOCR reports whether the frame matches the previous tick's frame
// closely enough to reuse its text. prevText is only meaningful when skip is
// true.
func (d *Detector) ShouldSkipOCR(ctx context.Context, imageData []byte) (skip bool, prevText string) {
	log := trace.Logger(ctx)

	hash, err := hashFrame(imageData)
	if err != nil {
		log.Debug("frame hash failed, not skipping OCR", "error", err)
		return false, ""
	}

	prev, err := d.load()
	if err != nil {
		return false, ""
	}

	dist, err := hash.Distance(goimagehash.NewImageHash(prev.Hash, goimagehash.PHash))
	if err != nil {
		return false, ""
	}
	if dist <= d.maxDistance {
		log.Debug("frame similar to previous tick, skipping OCR", "distance", dist)
		return true, prev.Text
	}
	return false, ""
}

// Store persists the frame's hash and extracted text for the next tick.
// Best effort: a write failure only disables skipping for one tick.
func (d *Detector) Store(ctx context.Context, imageData []byte, text string) {
	hash, err := hashFrame(imageData)
	if err != nil {
		return
	}
	data, err := json.Marshal(frameState{Hash: hash.GetHash(), Text: text})
	if err != nil {
		return
	}
	if err := os.WriteFile(d.statePath, data, 0o644); err != nil {
		trace.Logger(ctx).Debug("could not persist frame state", "error", err)
	}
}

func (d *Detector) load() (frameState, error) {
	var st frameState
	data, err := os.ReadFile(d.statePath)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}

func hashFrame(imageData []byte) (*goimagehash.ImageHash, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}
	return goimagehash.PerceptionHash(img)
}
