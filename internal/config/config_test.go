package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func loadForTest(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	SetDefaults()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadForTest(t)

	if cfg.Capture.IdleThresholdSeconds != 300 {
		t.Errorf("IdleThresholdSeconds = %d, want 300", cfg.Capture.IdleThresholdSeconds)
	}
	if cfg.Capture.MinWindowSizePx != 100 {
		t.Errorf("MinWindowSizePx = %d, want 100", cfg.Capture.MinWindowSizePx)
	}
	if cfg.Capture.OCRTextLimit != 5000 {
		t.Errorf("OCRTextLimit = %d, want 5000", cfg.Capture.OCRTextLimit)
	}
	if cfg.Capture.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v, want 5s", cfg.Capture.ProbeTimeout)
	}
	if cfg.Capture.ScreenshotTimeout != 10*time.Second {
		t.Errorf("ScreenshotTimeout = %v, want 10s", cfg.Capture.ScreenshotTimeout)
	}
	if cfg.Capture.OCRTimeout != 30*time.Second {
		t.Errorf("OCRTimeout = %v, want 30s", cfg.Capture.OCRTimeout)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestDerivedPaths(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("paths.root", "/data/worklog")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Paths.LogsDir != filepath.Join("/data/worklog", "logs") {
		t.Errorf("LogsDir = %q", cfg.Paths.LogsDir)
	}
	if cfg.Paths.TmpDir != filepath.Join("/data/worklog", "tmp") {
		t.Errorf("TmpDir = %q", cfg.Paths.TmpDir)
	}
	if cfg.Paths.ReportsDir != filepath.Join("/data/worklog", "reports") {
		t.Errorf("ReportsDir = %q", cfg.Paths.ReportsDir)
	}
	if cfg.Paths.OCRTool != filepath.Join("/data/worklog", "dist", "ocr_tool") {
		t.Errorf("OCRTool = %q", cfg.Paths.OCRTool)
	}
	if cfg.Paths.PostedFile != filepath.Join("/data/worklog", "reports", ".posted") {
		t.Errorf("PostedFile = %q", cfg.Paths.PostedFile)
	}
}

func TestExplicitPathsWin(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("paths.root", "/data/worklog")
	viper.Set("paths.logs_dir", "/var/log/worklog")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.LogsDir != "/var/log/worklog" {
		t.Errorf("LogsDir = %q, want explicit value kept", cfg.Paths.LogsDir)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := ExpandHome("~/worklog"); got != filepath.Join(home, "worklog") {
		t.Errorf("ExpandHome(~/worklog) = %q", got)
	}
	if got := ExpandHome("~"); got != home {
		t.Errorf("ExpandHome(~) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome should leave absolute paths alone, got %q", got)
	}
	if got := ExpandHome("~user/x"); !strings.HasPrefix(got, "~user") {
		t.Errorf("ExpandHome should not expand ~user forms, got %q", got)
	}
}
