package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendWritesOneJSONLine(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 5000)
	w.now = func() time.Time { return time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC) }

	s := Sample{
		Timestamp:   "2026-08-23T10:30:00+09:00",
		App:         "Code",
		WindowTitle: "main.go - worklog",
		Display:     2,
		OCRText:     "package main",
	}
	if err := w.Append(s); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "2026-08-23.jsonl"))
	if err != nil {
		t.Fatalf("partition not written: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}

	var got Sample
	if err := json.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if got != s {
		t.Errorf("round-trip = %+v, want %+v", got, s)
	}
}

func TestAppendNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 5000)
	w.now = func() time.Time { return time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) }

	for i := 0; i < 3; i++ {
		if err := w.Append(Sample{App: "App", Display: 1}); err != nil {
			t.Fatal(err)
		}
	}

	samples, err := ReadDay(dir, "2026-08-23")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Errorf("samples = %d, want 3 appended entries", len(samples))
	}
}

func TestPartitionFollowsAppendDate(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 5000)

	day := time.Date(2026, 8, 23, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	if err := w.Append(Sample{App: "A"}); err != nil {
		t.Fatal(err)
	}

	day = day.Add(2 * time.Minute) // crosses midnight
	if err := w.Append(Sample{App: "B"}); err != nil {
		t.Fatal(err)
	}

	first, _ := ReadDay(dir, "2026-08-23")
	second, _ := ReadDay(dir, "2026-08-24")
	if len(first) != 1 || len(second) != 1 {
		t.Errorf("partitions = %d/%d, want 1/1 split at midnight", len(first), len(second))
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 6000)
	got := Truncate(long, 5000)
	if len(got) != 5000+len(TruncationMarker) {
		t.Errorf("len = %d, want %d", len(got), 5000+len(TruncationMarker))
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("truncated text must end with the marker")
	}

	short := strings.Repeat("b", 100)
	if Truncate(short, 5000) != short {
		t.Error("text under the cap must be stored unmodified")
	}

	exact := strings.Repeat("c", 5000)
	if Truncate(exact, 5000) != exact {
		t.Error("text exactly at the cap must not be truncated")
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	text := strings.Repeat("あ", 10)
	got := Truncate(text, 5)
	if !strings.HasPrefix(got, strings.Repeat("あ", 5)) {
		t.Errorf("Truncate split a multibyte rune: %q", got)
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("marker missing")
	}
}

func TestAppendAppliesCap(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 50)
	w.now = func() time.Time { return time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC) }

	if err := w.Append(Sample{OCRText: strings.Repeat("x", 200)}); err != nil {
		t.Fatal(err)
	}
	samples, err := ReadDay(dir, "2026-08-23")
	if err != nil || len(samples) != 1 {
		t.Fatalf("samples = %v, err = %v", samples, err)
	}
	if len(samples[0].OCRText) != 50+len(TruncationMarker) {
		t.Errorf("stored len = %d, want cap + marker", len(samples[0].OCRText))
	}
}

func TestReadDaySkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"timestamp":"t1","app":"A","window_title":"","display":1,"ocr_text":""}
this line is not JSON
{"timestamp":"t2","app":"B","window_title":"","display":1,"ocr_text":""}
{"broken":
`
	if err := os.WriteFile(filepath.Join(dir, "2026-08-23.jsonl"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := ReadDay(dir, "2026-08-23")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("samples = %d, want the 2 well-formed lines", len(samples))
	}
	if samples[0].App != "A" || samples[1].App != "B" {
		t.Errorf("order not preserved: %+v", samples)
	}
}

func TestReadDayMissingPartition(t *testing.T) {
	samples, err := ReadDay(t.TempDir(), "2026-01-01")
	if err != nil {
		t.Errorf("missing partition should not error: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("samples = %d, want 0", len(samples))
	}
}

func TestReadDayLongLines(t *testing.T) {
	dir := t.TempDir()
	s := Sample{App: "A", OCRText: strings.Repeat("x", 200*1024)}
	line, _ := json.Marshal(s)
	if err := os.WriteFile(filepath.Join(dir, "2026-08-23.jsonl"), append(line, '\n'), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := ReadDay(dir, "2026-08-23")
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || len(samples[0].OCRText) != 200*1024 {
		t.Error("reader must handle lines beyond the default scanner buffer")
	}
}
