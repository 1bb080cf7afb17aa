// Package report turns recorded samples into daily and weekly summaries,
// renders them through the summarization service, and distributes them.
package report

import (
	"fmt"
	"sort"
	"time"

	"worklog/internal/record"
)

// Stats aggregates one set of samples. Each sample counts as one minute of
// foreground time since the capture loop ticks once a minute.
type Stats struct {
	TotalEntries  int
	AppUsage      map[string]int
	AppWindows    map[string][]string
	HourlyEntries map[string]int
	FirstEntry    string
	LastEntry     string
}

// AppCount is one app's accumulated foreground minutes.
type AppCount struct {
	App     string
	Minutes int
}

// Analyze computes usage statistics over samples, in recorded order.
func Analyze(samples []record.Sample) Stats {
	s := Stats{
		AppUsage:      make(map[string]int),
		AppWindows:    make(map[string][]string),
		HourlyEntries: make(map[string]int),
	}
	seen := make(map[string]map[string]bool)

	for _, e := range samples {
		app := e.App
		if app == "" {
			app = "Unknown"
		}
		s.AppUsage[app]++

		if e.WindowTitle != "" {
			if seen[app] == nil {
				seen[app] = make(map[string]bool)
			}
			if !seen[app][e.WindowTitle] {
				seen[app][e.WindowTitle] = true
				s.AppWindows[app] = append(s.AppWindows[app], e.WindowTitle)
			}
		}

		if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			s.HourlyEntries[ts.Format("15:00")]++
		}
	}

	s.TotalEntries = len(samples)
	if len(samples) > 0 {
		s.FirstEntry = samples[0].Timestamp
		s.LastEntry = samples[len(samples)-1].Timestamp
	}
	return s
}

// Merge folds other into s. Window title order follows merge order.
func (s *Stats) Merge(other Stats) {
	s.TotalEntries += other.TotalEntries
	for app, n := range other.AppUsage {
		s.AppUsage[app] += n
	}
	for app, windows := range other.AppWindows {
		existing := make(map[string]bool, len(s.AppWindows[app]))
		for _, w := range s.AppWindows[app] {
			existing[w] = true
		}
		for _, w := range windows {
			if !existing[w] {
				s.AppWindows[app] = append(s.AppWindows[app], w)
			}
		}
	}
	for hour, n := range other.HourlyEntries {
		s.HourlyEntries[hour] += n
	}
	if s.FirstEntry == "" || (other.FirstEntry != "" && other.FirstEntry < s.FirstEntry) {
		s.FirstEntry = other.FirstEntry
	}
	if other.LastEntry > s.LastEntry {
		s.LastEntry = other.LastEntry
	}
}

// TopApps returns up to n apps ordered by descending usage. Ties break on
// app name so the output is stable.
func (s Stats) TopApps(n int) []AppCount {
	apps := make([]AppCount, 0, len(s.AppUsage))
	for app, minutes := range s.AppUsage {
		apps = append(apps, AppCount{App: app, Minutes: minutes})
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Minutes != apps[j].Minutes {
			return apps[i].Minutes > apps[j].Minutes
		}
		return apps[i].App < apps[j].App
	})
	if len(apps) > n {
		apps = apps[:n]
	}
	return apps
}

func formatMinutes(m int) string {
	if m >= 60 {
		return fmt.Sprintf("%dh %dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}
