package cli

import (
	"time"

	"github.com/spf13/cobra"

	"worklog/internal/activity"
	"worklog/internal/capture"
	"worklog/internal/config"
	"worklog/internal/dedup"
	"worklog/internal/display"
	"worklog/internal/ocr"
	"worklog/internal/pipeline"
	"worklog/internal/probe"
	"worklog/internal/record"
	"worklog/internal/window"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record one foreground-activity sample",
	Long: `Capture performs a single acquisition tick: check whether the
workstation is active, resolve the foreground window, screenshot its display,
extract on-screen text, and append the sample to today's log. Run it once a
minute from a scheduler.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return buildPipeline(cfg).Tick(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	displays := display.NewMapper(probe.NewDisplayProbe())
	return pipeline.New(
		activity.NewGate(
			probe.NewActivityProbe(cfg.Capture.ProbeTimeout),
			time.Duration(cfg.Capture.IdleThresholdSeconds)*time.Second,
		),
		window.NewResolver(
			probe.NewWindowProbe(cfg.Capture.ProbeTimeout),
			cfg.Capture.MinWindowSizePx,
		),
		displays,
		capture.NewCapturer(
			probe.NewScreenshotProbe(cfg.Capture.ScreenshotTimeout),
			displays,
			cfg.Paths.TmpDir,
		),
		dedup.NewDetector(cfg.Paths.TmpDir, cfg.Capture.DedupMaxDistance),
		ocr.NewExtractor(cfg.Paths.OCRTool, cfg.Capture.OCRTimeout),
		record.NewWriter(cfg.Paths.LogsDir, cfg.Capture.OCRTextLimit),
	)
}
