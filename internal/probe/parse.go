package probe

import (
	"image"
	"regexp"
	"strconv"
	"strings"
)

// parseFrontmost splits osascript output into app name and window title.
// The first line is the app; everything after the first newline is the title
// (titles may themselves contain newlines).
func parseFrontmost(out string) (app, title string) {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return "", ""
	}
	parts := strings.SplitN(out, "\n", 2)
	app = parts[0]
	if len(parts) > 1 {
		title = parts[1]
	}
	return app, title
}

// parseLockedHint parses `loginctl show-session -p LockedHint` output.
// Anything other than an explicit "yes" counts as unlocked: an undeterminable
// lock state only wastes a sample, it never loses data.
func parseLockedHint(out string) bool {
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if ok && k == "LockedHint" {
			return v == "yes"
		}
	}
	return false
}

var hidIdleRe = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// parseHIDIdleSeconds extracts idle seconds from `ioreg -c IOHIDSystem`
// output, where HIDIdleTime is reported in nanoseconds.
func parseHIDIdleSeconds(out string) (float64, bool) {
	m := hidIdleRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	ns, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(ns) / 1e9, true
}

// parseCGSessionLocked reports whether an `ioreg -n Root -d1 -a` plist marks
// the login session locked.
func parseCGSessionLocked(out string) bool {
	const key = "<key>CGSSessionScreenIsLocked</key>"
	i := strings.Index(out, key)
	if i < 0 {
		return false
	}
	rest := out[i+len(key):]
	// The value element immediately follows the key; stop at the next key.
	if j := strings.Index(rest, "<key>"); j >= 0 {
		rest = rest[:j]
	}
	return strings.Contains(rest, "<true/>")
}

// parseMillis parses a bare millisecond count (xprintidle output) as seconds.
func parseMillis(out string) (float64, bool) {
	ms, err := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(ms) / 1e3, true
}

// parseWindowRows parses tab-separated window rows emitted by the System
// Events enumeration script: title, x, y, width, height. Every row belongs to
// the given application and rows arrive front-to-back.
func parseWindowRows(app, out string) []WindowInfo {
	var windows []WindowInfo
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			continue
		}
		x, err1 := strconv.Atoi(strings.TrimSpace(fields[1]))
		y, err2 := strconv.Atoi(strings.TrimSpace(fields[2]))
		w, err3 := strconv.Atoi(strings.TrimSpace(fields[3]))
		h, err4 := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		windows = append(windows, WindowInfo{
			App:    app,
			Title:  fields[0],
			Bounds: image.Rect(x, y, x+w, y+h),
		})
	}
	return windows
}

// parseWmctrl parses `wmctrl -lGx` output into window infos. wmctrl lists
// windows bottom-to-top, so rows are reversed to yield front-to-back order.
// Row shape: id desktop x y width height class host title...
func parseWmctrl(out string) []WindowInfo {
	var windows []WindowInfo
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}
		x, err1 := strconv.Atoi(fields[2])
		y, err2 := strconv.Atoi(fields[3])
		w, err3 := strconv.Atoi(fields[4])
		h, err4 := strconv.Atoi(fields[5])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		app := fields[6]
		// WM_CLASS is "instance.Class"; the class half reads like an app name.
		if _, cls, ok := strings.Cut(app, "."); ok && cls != "" {
			app = cls
		}
		title := ""
		if len(fields) > 8 {
			title = strings.Join(fields[8:], " ")
		}
		windows = append(windows, WindowInfo{
			App:    app,
			Title:  title,
			Bounds: image.Rect(x, y, x+w, y+h),
		})
	}
	for i, j := 0, len(windows)-1; i < j; i, j = i+1, j-1 {
		windows[i], windows[j] = windows[j], windows[i]
	}
	return windows
}

// parseWMClass extracts the class name from `xprop WM_CLASS` output, e.g.
// WM_CLASS(STRING) = "navigator", "Firefox" -> Firefox.
func parseWMClass(out string) string {
	_, v, ok := strings.Cut(out, "=")
	if !ok {
		return ""
	}
	parts := strings.Split(v, ",")
	last := strings.TrimSpace(parts[len(parts)-1])
	return strings.Trim(last, `" `)
}
