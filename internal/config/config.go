// Package config handles worklog configuration.
//
// Values are read once at process start from defaults, an optional YAML
// config file, and WORKLOG_* environment variables, then carried as an
// explicit struct into each component's constructor.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete worklog configuration.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Capture CaptureConfig `mapstructure:"capture"`
	Report  ReportConfig  `mapstructure:"report"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PathsConfig controls where worklog stores data.
type PathsConfig struct {
	// Root is the base directory for all worklog data. Supports ~ expansion.
	Root string `mapstructure:"root"`
	// LogsDir holds the per-day JSONL partitions. Empty means <root>/logs.
	LogsDir string `mapstructure:"logs_dir"`
	// TmpDir holds transient screenshots. Empty means <root>/tmp.
	TmpDir string `mapstructure:"tmp_dir"`
	// ReportsDir holds generated reports. Empty means <root>/reports.
	ReportsDir string `mapstructure:"reports_dir"`
	// OCRTool is the path to the external text-extraction binary.
	// Empty means <root>/dist/ocr_tool.
	OCRTool string `mapstructure:"ocr_tool"`
	// PostedFile is the marker file recording already-published periods.
	// Empty means <reports_dir>/.posted.
	PostedFile string `mapstructure:"posted_file"`
}

// CaptureConfig controls the acquisition pipeline.
type CaptureConfig struct {
	// IdleThresholdSeconds skips the tick when the user has been idle longer.
	IdleThresholdSeconds int `mapstructure:"idle_threshold_seconds"`
	// MinWindowSizePx filters toolbars and palettes out of geometry lookup.
	MinWindowSizePx int `mapstructure:"min_window_size_px"`
	// OCRTextLimit caps recorded OCR text; overflow is truncated with a marker.
	OCRTextLimit int `mapstructure:"ocr_text_limit"`
	// ProbeTimeout bounds OS introspection calls (lock state, idle, windows).
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	// ScreenshotTimeout bounds the full-display capture.
	ScreenshotTimeout time.Duration `mapstructure:"screenshot_timeout"`
	// OCRTimeout bounds the external OCR invocation.
	OCRTimeout time.Duration `mapstructure:"ocr_timeout"`
	// DedupMaxDistance is the max perception-hash Hamming distance at which
	// two consecutive frames count as the same screen and OCR is skipped.
	DedupMaxDistance int `mapstructure:"dedup_max_distance"`
}

// ReportConfig controls the external summarizer boundary.
type ReportConfig struct {
	// Endpoint is the base URL of the text-generation service.
	Endpoint string `mapstructure:"endpoint"`
	// Model is an opaque model identifier passed through to the service.
	Model string `mapstructure:"model"`
	// Timeout bounds one generation call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SlackConfig controls the outbound notification channel.
type SlackConfig struct {
	// WebhookURL is the incoming-webhook endpoint. Empty disables posting.
	WebhookURL string `mapstructure:"webhook_url"`
}

// LoggingConfig controls process logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
}

// SetDefaults registers all defaults with viper.
func SetDefaults() {
	viper.SetDefault("paths.root", "~/worklog")
	viper.SetDefault("paths.logs_dir", "")
	viper.SetDefault("paths.tmp_dir", "")
	viper.SetDefault("paths.reports_dir", "")
	viper.SetDefault("paths.ocr_tool", "")
	viper.SetDefault("paths.posted_file", "")

	viper.SetDefault("capture.idle_threshold_seconds", 300)
	viper.SetDefault("capture.min_window_size_px", 100)
	viper.SetDefault("capture.ocr_text_limit", 5000)
	viper.SetDefault("capture.probe_timeout", 5*time.Second)
	viper.SetDefault("capture.screenshot_timeout", 10*time.Second)
	viper.SetDefault("capture.ocr_timeout", 30*time.Second)
	viper.SetDefault("capture.dedup_max_distance", 10)

	viper.SetDefault("report.endpoint", "")
	viper.SetDefault("report.model", "")
	viper.SetDefault("report.timeout", 60*time.Second)

	viper.SetDefault("slack.webhook_url", "")

	viper.SetDefault("logging.level", "info")
}

// Load unmarshals the current viper state and resolves derived paths.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths()
	return &cfg, nil
}

func (c *Config) resolvePaths() {
	c.Paths.Root = ExpandHome(c.Paths.Root)
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = filepath.Join(c.Paths.Root, "logs")
	}
	if c.Paths.TmpDir == "" {
		c.Paths.TmpDir = filepath.Join(c.Paths.Root, "tmp")
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = filepath.Join(c.Paths.Root, "reports")
	}
	if c.Paths.OCRTool == "" {
		c.Paths.OCRTool = filepath.Join(c.Paths.Root, "dist", "ocr_tool")
	}
	if c.Paths.PostedFile == "" {
		c.Paths.PostedFile = filepath.Join(c.Paths.ReportsDir, ".posted")
	}
	c.Paths.LogsDir = ExpandHome(c.Paths.LogsDir)
	c.Paths.TmpDir = ExpandHome(c.Paths.TmpDir)
	c.Paths.ReportsDir = ExpandHome(c.Paths.ReportsDir)
	c.Paths.OCRTool = ExpandHome(c.Paths.OCRTool)
	c.Paths.PostedFile = ExpandHome(c.Paths.PostedFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
