package cli

import (
	"time"

	"github.com/spf13/cobra"

	"worklog/internal/config"
	"worklog/internal/notify"
	"worklog/internal/once"
	"worklog/internal/report"
	"worklog/internal/summarize"
)

var dailyCmd = &cobra.Command{
	Use:   "daily [date]",
	Short: "Generate the daily report",
	Long: `Daily reads one day's samples (yesterday unless a YYYY-MM-DD date is
given), renders a report through the summarization service, saves it under
the reports directory and posts it at most once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		date := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		if len(args) > 0 {
			if _, err := time.Parse("2006-01-02", args[0]); err != nil {
				return err
			}
			date = args[0]
		}
		return buildGenerator(cfg).Daily(cmd.Context(), date)
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly [date]",
	Short: "Generate the weekly report",
	Long: `Weekly reads Monday-through-Friday samples of the week containing
the given date (today by default), renders a report through the summarization
service, saves it under the reports directory and posts it at most once per
ISO week.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ref := time.Now()
		if len(args) > 0 {
			ref, err = time.Parse("2006-01-02", args[0])
			if err != nil {
				return err
			}
		}
		return buildGenerator(cfg).Weekly(cmd.Context(), ref)
	},
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(weeklyCmd)
}

func buildGenerator(cfg *config.Config) *report.Generator {
	return report.NewGenerator(
		cfg.Paths.LogsDir,
		cfg.Paths.ReportsDir,
		summarize.New(cfg.Report.Endpoint, cfg.Report.Model, cfg.Report.Timeout),
		notify.New(cfg.Slack.WebhookURL, 30*time.Second),
		once.NewGuard(cfg.Paths.PostedFile),
	)
}
