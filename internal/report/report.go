package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/errors"
	"worklog/internal/notify"
	"worklog/internal/once"
	"worklog/internal/record"
	"worklog/internal/summarize"
	"worklog/internal/trace"
)

// Generator produces reports from recorded samples and distributes them.
type Generator struct {
	logsDir    string
	reportsDir string
	llm        *summarize.Client
	notifier   *notify.Notifier
	guard      *once.Guard
}

// NewGenerator wires a report generator. The notifier may be disabled; the
// guard keeps repeated runs from posting the same report twice.
func NewGenerator(logsDir, reportsDir string, llm *summarize.Client, notifier *notify.Notifier, guard *once.Guard) *Generator {
	return &Generator{
		logsDir:    logsDir,
		reportsDir: reportsDir,
		llm:        llm,
		notifier:   notifier,
		guard:      guard,
	}
}

// Daily generates the report for one date (YYYY-MM-DD), saves it under the
// reports directory and posts it at most once.
func (g *Generator) Daily(ctx context.Context, date string) error {
	ctx, span := trace.StartSpan(ctx, "report.daily")
	defer span.End()
	log := trace.Logger(ctx)

	samples, err := record.ReadDay(g.logsDir, date)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.Newf(errors.CodeUnknown, "no samples recorded for %s", date)
	}
	log.Info("generating daily report", "date", date, "samples", len(samples))

	stats := Analyze(samples)
	text, err := g.llm.Generate(ctx, DailyPrompt(date, DailySummary(samples, stats)))
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "generate daily report")
	}

	path, err := g.save(date, text)
	if err != nil {
		return err
	}
	log.Info("daily report saved", "path", path)

	g.distribute(ctx, date, fmt.Sprintf("📊 *%s Daily Report*", date), text)
	return nil
}

// Weekly generates the report for the ISO week containing ref, covering
// Monday through Friday.
func (g *Generator) Weekly(ctx context.Context, ref time.Time) error {
	ctx, span := trace.StartSpan(ctx, "report.weekly")
	defer span.End()
	log := trace.Logger(ctx)

	week := WeekNumber(ref)
	dates := WeekDates(ref)

	byDay := make(map[string][]record.Sample)
	daily := make(map[string]Stats)
	total := Stats{
		AppUsage:      make(map[string]int),
		AppWindows:    make(map[string][]string),
		HourlyEntries: make(map[string]int),
	}
	for _, date := range dates {
		samples, err := record.ReadDay(g.logsDir, date)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}
		byDay[date] = samples
		stats := Analyze(samples)
		daily[date] = stats
		total.Merge(stats)
	}
	if total.TotalEntries == 0 {
		return errors.Newf(errors.CodeUnknown, "no samples recorded for week %s", week)
	}
	log.Info("generating weekly report", "week", week, "days", len(byDay), "samples", total.TotalEntries)

	summary := WeeklySummary(dates, byDay, daily, total)
	text, err := g.llm.Generate(ctx, WeeklyPrompt(week, dates, summary))
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "generate weekly report")
	}

	path, err := g.save(week, text)
	if err != nil {
		return err
	}
	log.Info("weekly report saved", "path", path)

	g.distribute(ctx, week, fmt.Sprintf("📊 *%s Weekly Report*", week), text)
	return nil
}

func (g *Generator) save(name, content string) (string, error) {
	if err := os.MkdirAll(g.reportsDir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CodeIO, "create reports dir")
	}
	path := filepath.Join(g.reportsDir, name+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, errors.CodeIO, "write report")
	}
	return path, nil
}

// distribute posts the report at most once per identifier. The identifier is
// marked before the send, so a send that fails after marking stays unsent
// rather than risking a duplicate. The saved file is the primary artifact,
// so posting problems are logged, not fatal.
func (g *Generator) distribute(ctx context.Context, id, header, markdown string) {
	log := trace.Logger(ctx)
	if g.notifier == nil || !g.notifier.Enabled() {
		log.Debug("notifications not configured, skipping post", "id", id)
		return
	}

	proceed, err := g.guard.TestAndMark(id)
	if err != nil {
		log.Warn("post guard failed, not posting", "id", id, "error", err)
		return
	}
	if !proceed {
		log.Info("already posted, skipping", "id", id)
		return
	}

	msg := header + "\n" + notify.ToMrkdwn(markdown)
	if err := g.notifier.Post(ctx, msg); err != nil {
		log.Warn("posting report failed", "id", id, "error", err)
		return
	}
	log.Info("report posted", "id", id)
}
