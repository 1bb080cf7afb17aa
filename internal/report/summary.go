package report

import (
	"fmt"
	"strings"

	"worklog/internal/record"
)

const (
	dailyOCRStride   = 10
	weeklyOCRStride  = 20
	minOCRSampleLen  = 50
	ocrSampleMaxLen  = 300
	maxDailySamples  = 5
	maxWeeklySamples = 3
)

// DailySummary renders one day's samples into the structured digest fed to
// the summarization model.
func DailySummary(samples []record.Sample, stats Stats) string {
	var b strings.Builder
	b.WriteString("# Work log data\n\n")

	b.WriteString("## Recording overview\n")
	fmt.Fprintf(&b, "- First entry: %s\n", orNA(stats.FirstEntry))
	fmt.Fprintf(&b, "- Last entry: %s\n", orNA(stats.LastEntry))
	fmt.Fprintf(&b, "- Total entries: %d (about %d minutes)\n\n", stats.TotalEntries, stats.TotalEntries)

	topApps := stats.TopApps(10)
	b.WriteString("## App usage\n")
	for _, a := range topApps {
		fmt.Fprintf(&b, "- %s: %s\n", a.App, formatMinutes(a.Minutes))
	}

	b.WriteString("\n## Activity by hour\n")
	for hour := 0; hour < 24; hour++ {
		key := fmt.Sprintf("%02d:00", hour)
		if n := stats.HourlyEntries[key]; n > 0 {
			fmt.Fprintf(&b, "- %s: %s\n", key, formatMinutes(n))
		}
	}

	writeWindowTitles(&b, stats, topApps, 10)
	writeOCRSamples(&b, samples, dailyOCRStride, maxDailySamples)

	return b.String()
}

// WeeklySummary renders Monday-through-Friday samples into the weekly digest.
// dates preserves weekday order; days without samples are absent from byDay.
func WeeklySummary(dates []string, byDay map[string][]record.Sample, daily map[string]Stats, week Stats) string {
	var b strings.Builder
	b.WriteString("# Weekly work log data\n\n")

	b.WriteString("## Recording overview\n")
	fmt.Fprintf(&b, "- Dates: %s\n", strings.Join(recordedDates(dates, byDay), ", "))
	fmt.Fprintf(&b, "- Total entries: %d (about %d minutes)\n\n", week.TotalEntries, week.TotalEntries)

	b.WriteString("## Time recorded per day\n")
	for _, date := range dates {
		if stats, ok := daily[date]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", date, formatMinutes(stats.TotalEntries))
		}
	}

	topApps := week.TopApps(10)
	b.WriteString("\n## App usage for the week\n")
	for _, a := range topApps {
		fmt.Fprintf(&b, "- %s: %s\n", a.App, formatMinutes(a.Minutes))
	}

	writeWindowTitles(&b, week, topApps, 15)

	b.WriteString("\n## Screen content samples (OCR)\n")
	for _, date := range dates {
		samples := byDay[date]
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n", date)
		for _, s := range ocrSamples(samples, weeklyOCRStride, maxWeeklySamples) {
			fmt.Fprintf(&b, "- %s...\n", s)
		}
	}

	return b.String()
}

// writeWindowTitles lists window titles for the top 5 apps, capped per app.
// Titles hint at files and tasks the app was used for.
func writeWindowTitles(b *strings.Builder, stats Stats, topApps []AppCount, perApp int) {
	b.WriteString("\n## Work hints (window titles)\n")
	for i, a := range topApps {
		if i >= 5 {
			break
		}
		windows := stats.AppWindows[a.App]
		if len(windows) == 0 {
			continue
		}
		if len(windows) > perApp {
			windows = windows[:perApp]
		}
		fmt.Fprintf(b, "\n### %s\n", a.App)
		for _, w := range windows {
			fmt.Fprintf(b, "  - %s\n", w)
		}
	}
}

func writeOCRSamples(b *strings.Builder, samples []record.Sample, stride, max int) {
	b.WriteString("\n## Screen content samples (OCR)\n")
	for _, s := range ocrSamples(samples, stride, max) {
		fmt.Fprintf(b, "- %s...\n", s)
	}
}

// ocrSamples picks every stride-th entry with substantial OCR text, capped
// at max, each flattened to a single line of at most ocrSampleMaxLen runes.
func ocrSamples(samples []record.Sample, stride, max int) []string {
	var out []string
	for i := 0; i < len(samples) && len(out) < max; i += stride {
		text := samples[i].OCRText
		if len([]rune(text)) <= minOCRSampleLen {
			continue
		}
		flat := strings.ReplaceAll(text, "\n", " ")
		if runes := []rune(flat); len(runes) > ocrSampleMaxLen {
			flat = string(runes[:ocrSampleMaxLen])
		}
		out = append(out, fmt.Sprintf("[%s] %s", samples[i].App, flat))
	}
	return out
}

func recordedDates(dates []string, byDay map[string][]record.Sample) []string {
	var out []string
	for _, d := range dates {
		if len(byDay[d]) > 0 {
			out = append(out, d)
		}
	}
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// DailyPrompt wraps the digest with generation instructions for one day.
func DailyPrompt(date, summary string) string {
	return fmt.Sprintf(`The following is work log data for %[1]s. Analyze it and write a daily report.

%[2]s

---

Write the report in this format:

# %[1]s Daily Report

## Work done
(Bullet points of the main work per time period. Mark inferences as such.)

## Apps used
| App | Time | Main purpose |
|-----|------|--------------|
(Ordered by usage time, descending.)

## Notes and takeaways
(Learnings or observations inferred from OCR text and window titles, or "None".)

## In progress
(Work or files that appear unfinished.)

---
Notes:
- Make inferences explicit
- Redact personal or sensitive information
- Keep it concise
`, date, summary)
}

// WeeklyPrompt wraps the digest with generation instructions for one week.
func WeeklyPrompt(weekNumber string, dates []string, summary string) string {
	dateRange := weekNumber
	if len(dates) > 0 {
		dateRange = fmt.Sprintf("%s to %s", dates[0], dates[len(dates)-1])
	}

	return fmt.Sprintf(`The following is weekly work log data for %[1]s. Analyze it and write a weekly report.

%[2]s

---

Write the report in this format:

# %[3]s Weekly Report (%[1]s)

## Week summary
(Main work items as bullet points, with total hours.)

## Apps used (weekly)
| App | Time | Main purpose |
|-----|------|--------------|
(Top 5 by usage time.)

## Daily activity
(One or two lines per day.)

## Learning and research notes
(What was researched or learned this week, inferred from OCR text and window titles.)

## Retrospective
(What went well, what to improve.)

## Preparation for next week
(Open tasks and what to line up for next week.)

---
Notes:
- Make inferences explicit
- Redact personal or sensitive information
- Keep it concise
- Friday data may be partial
`, dateRange, summary, weekNumber)
}
