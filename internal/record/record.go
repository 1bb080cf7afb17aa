// Package record reads and writes the durable sample log: one JSON object
// per line, one file per calendar day. The writer only ever appends; rotation
// and retention belong to the outside world.
package record

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/errors"
)

// TruncationMarker terminates OCR text that exceeded the configured cap.
const TruncationMarker = "...[truncated]"

// Sample is one immutable acquisition record.
type Sample struct {
	Timestamp   string `json:"timestamp"`
	App         string `json:"app"`
	WindowTitle string `json:"window_title"`
	Display     int    `json:"display"`
	OCRText     string `json:"ocr_text"`
}

// Writer appends samples to per-day partitions.
type Writer struct {
	dir       string
	textLimit int
	now       func() time.Time
}

// NewWriter creates a writer for partitions under dir, capping OCR text at
// textLimit characters.
func NewWriter(dir string, textLimit int) *Writer {
	return &Writer{dir: dir, textLimit: textLimit, now: time.Now}
}

// Append writes one sample to the partition of the current calendar date.
// The file is opened in append mode so successive ticks never overwrite
// prior entries. A failure here means the sample is lost and is therefore
// surfaced as an error, not swallowed.
func (w *Writer) Append(s Sample) error {
	s.OCRText = Truncate(s.OCRText, w.textLimit)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeIO, "create logs dir")
	}

	line, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "encode sample")
	}

	path := PartitionPath(w.dir, w.now())
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "open partition")
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, errors.CodeIO, "append sample")
	}
	return nil
}

// Truncate caps text at limit characters, appending the truncation marker
// when anything was cut. Counting is rune-based so multibyte text is never
// split mid-character.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + TruncationMarker
}

// PartitionPath returns the partition file for the given day.
func PartitionPath(dir string, day time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s.jsonl", day.Format("2006-01-02")))
}

// ReadDay loads all well-formed samples from one day's partition, in order.
// Malformed lines are skipped, not rejected: the writer never reads back its
// own file and a torn line must not hide the rest of the day. A missing
// partition is an empty day, not an error.
func ReadDay(dir, date string) ([]Sample, error) {
	path := filepath.Join(dir, date+".jsonl")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CodeIO, "open partition")
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(line, &s); err != nil {
			continue
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return samples, errors.Wrap(err, errors.CodeIO, "scan partition")
	}
	return samples, nil
}
