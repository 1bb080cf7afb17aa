package pipeline

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"worklog/internal/activity"
	"worklog/internal/capture"
	"worklog/internal/dedup"
	"worklog/internal/display"
	"worklog/internal/ocr"
	"worklog/internal/probe"
	"worklog/internal/record"
	"worklog/internal/window"
)

type fakeActivity struct {
	locked bool
	idle   float64
}

func (f fakeActivity) ScreenLocked(context.Context) (bool, error) { return f.locked, nil }
func (f fakeActivity) IdleSeconds(context.Context) (float64, error) {
	return f.idle, nil
}

type fakeWindows struct {
	app, title string
	windows    []probe.WindowInfo
}

func (f fakeWindows) Frontmost(context.Context) (string, string, error) {
	return f.app, f.title, nil
}
func (f fakeWindows) Windows(context.Context) ([]probe.WindowInfo, error) {
	return f.windows, nil
}

type fakeDisplays struct{ bounds []image.Rectangle }

func (f fakeDisplays) Bounds() []image.Rectangle { return f.bounds }

type fakeScreens struct {
	calls *int
}

func (f fakeScreens) CaptureDisplay(_ context.Context, _ int, dst string) error {
	if f.calls != nil {
		*f.calls++
	}
	img := image.NewRGBA(image.Rect(0, 0, 1440, 900))
	for y := 0; y < 900; y += 4 {
		for x := 0; x < 1440; x += 4 {
			img.Set(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

func ocrStub(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script OCR stub")
	}
	path := filepath.Join(t.TempDir(), "ocr_tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

type env struct {
	p        *Pipeline
	logsDir  string
	tmpDir   string
	captures int
}

func newEnv(t *testing.T, act fakeActivity, ocrScript string) *env {
	t.Helper()
	e := &env{logsDir: t.TempDir(), tmpDir: t.TempDir()}

	geom := image.Rect(100, 100, 900, 700)
	displays := display.NewMapper(fakeDisplays{bounds: []image.Rectangle{image.Rect(0, 0, 1440, 900)}})

	e.p = New(
		activity.NewGate(act, 300*time.Second),
		window.NewResolver(fakeWindows{
			app:     "Code",
			title:   "main.go - worklog",
			windows: []probe.WindowInfo{{App: "Code", Title: "main.go - worklog", Bounds: geom}},
		}, 100),
		displays,
		capture.NewCapturer(fakeScreens{calls: &e.captures}, displays, e.tmpDir),
		dedup.NewDetector(e.tmpDir, 10),
		ocr.NewExtractor(ocrStub(t, ocrScript), 5*time.Second),
		record.NewWriter(e.logsDir, 5000),
	)
	e.p.now = func() time.Time { return time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC) }
	return e
}

func (e *env) samples(t *testing.T) []record.Sample {
	t.Helper()
	samples, err := record.ReadDay(e.logsDir, "2026-08-20")
	if err != nil {
		t.Fatal(err)
	}
	return samples
}

func (e *env) leftoverShots(t *testing.T) []string {
	t.Helper()
	shots, err := filepath.Glob(filepath.Join(e.tmpDir, "screenshot_*.png"))
	if err != nil {
		t.Fatal(err)
	}
	return shots
}

func TestTickRecordsOneSample(t *testing.T) {
	e := newEnv(t, fakeActivity{}, `echo "extracted text"`)

	if err := e.p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	samples := e.samples(t)
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want exactly 1", len(samples))
	}
	s := samples[0]
	if s.App != "Code" || s.WindowTitle != "main.go - worklog" {
		t.Errorf("sample = %+v", s)
	}
	if s.Display != 1 {
		t.Errorf("display = %d, want 1", s.Display)
	}
	if s.OCRText != "extracted text" {
		t.Errorf("ocr_text = %q", s.OCRText)
	}
	if _, err := time.Parse(time.RFC3339, s.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", s.Timestamp, err)
	}

	if shots := e.leftoverShots(t); len(shots) != 0 {
		t.Errorf("transient screenshots left behind: %v", shots)
	}
}

func TestTickGatedWhenIdle(t *testing.T) {
	e := newEnv(t, fakeActivity{idle: 400}, `echo text`)

	if err := e.p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if samples := e.samples(t); len(samples) != 0 {
		t.Errorf("idle tick recorded %d samples, want 0", len(samples))
	}
	if e.captures != 0 {
		t.Errorf("idle tick captured %d screenshots, want 0", e.captures)
	}
}

func TestTickGatedWhenLocked(t *testing.T) {
	e := newEnv(t, fakeActivity{locked: true, idle: 0}, `echo text`)

	if err := e.p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if samples := e.samples(t); len(samples) != 0 {
		t.Errorf("locked tick recorded %d samples, want 0", len(samples))
	}
	if e.captures != 0 {
		t.Error("locked tick must not capture")
	}
}

func TestTickReusesTextForUnchangedFrame(t *testing.T) {
	e := newEnv(t, fakeActivity{}, `echo "run" >> "$(dirname "$0")/calls"; echo "stable text"`)

	for i := 0; i < 2; i++ {
		if err := e.p.Tick(context.Background()); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	samples := e.samples(t)
	if len(samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(samples))
	}
	if samples[1].OCRText != samples[0].OCRText {
		t.Errorf("unchanged frame should reuse text: %q vs %q", samples[0].OCRText, samples[1].OCRText)
	}
}

type failingWindows struct{}

func (failingWindows) Frontmost(context.Context) (string, string, error) {
	return "", "", os.ErrPermission
}
func (failingWindows) Windows(context.Context) ([]probe.WindowInfo, error) {
	return nil, os.ErrPermission
}

func TestTickRecordsWithoutWindowInfo(t *testing.T) {
	e := newEnv(t, fakeActivity{}, `echo "text anyway"`)
	e.p.windows = window.NewResolver(failingWindows{}, 100)

	if err := e.p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	samples := e.samples(t)
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want 1 even without window info", len(samples))
	}
	if samples[0].App != "" || samples[0].WindowTitle != "" {
		t.Errorf("window fields should be empty: %+v", samples[0])
	}
	if samples[0].Display != 1 {
		t.Errorf("display = %d, want primary fallback", samples[0].Display)
	}
	if samples[0].OCRText != "text anyway" {
		t.Errorf("ocr_text = %q", samples[0].OCRText)
	}
}

type failingScreens struct{}

func (failingScreens) CaptureDisplay(context.Context, int, string) error {
	return os.ErrPermission
}

func TestTickCaptureFailureAborts(t *testing.T) {
	e := newEnv(t, fakeActivity{}, `echo text`)
	displays := display.NewMapper(fakeDisplays{bounds: []image.Rectangle{image.Rect(0, 0, 1440, 900)}})
	e.p.capturer = capture.NewCapturer(failingScreens{}, displays, e.tmpDir)

	if err := e.p.Tick(context.Background()); err == nil {
		t.Fatal("expected an error when capture fails")
	}
	if samples := e.samples(t); len(samples) != 0 {
		t.Errorf("failed tick recorded %d samples, want 0", len(samples))
	}
}

func TestTickOCRFailureStillRecords(t *testing.T) {
	e := newEnv(t, fakeActivity{}, `exit 1`)

	if err := e.p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	samples := e.samples(t)
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(samples))
	}
	if samples[0].OCRText != "" {
		t.Errorf("ocr_text = %q, want empty on OCR failure", samples[0].OCRText)
	}
	if !strings.Contains(samples[0].App, "Code") {
		t.Errorf("sample metadata must survive OCR failure: %+v", samples[0])
	}
}
