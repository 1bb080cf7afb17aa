// Package notify posts report summaries to a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"worklog/internal/errors"
	"worklog/internal/resilience"
)

// Notifier posts mrkdwn-formatted messages to one webhook URL.
type Notifier struct {
	webhookURL string
	http       *http.Client
	retry      resilience.RetryConfig
}

// New creates a notifier. An empty webhook URL yields a disabled notifier;
// Post then reports not-configured via Enabled.
func New(webhookURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: timeout},
		retry:      resilience.DefaultRetryConfig(),
	}
}

// Enabled reports whether a webhook is configured.
func (n *Notifier) Enabled() bool { return n.webhookURL != "" }

// Post sends text as one webhook message.
func (n *Notifier) Post(ctx context.Context, text string) error {
	if !n.Enabled() {
		return errors.New(errors.CodeUnavailable, "slack webhook not configured")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "encode message")
	}

	return resilience.Retry(ctx, n.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "build request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.http.Do(req)
		if err != nil {
			return errors.Wrap(err, errors.CodeUnavailable, "call webhook")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			code := errors.CodeUnknown
			if resilience.IsRetryableStatus(resp.StatusCode) {
				code = errors.CodeUnavailable
			}
			return errors.Newf(code, "webhook returned %d", resp.StatusCode)
		}
		return nil
	})
}

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
var tableSepRe = regexp.MustCompile(`^\|[\s\-:]+\|`)

// ToMrkdwn converts GitHub-flavored markdown into Slack mrkdwn. Headings
// become bold lines, **bold** becomes *bold*, and tables become bullet lists
// keyed by the header row. Everything else passes through unchanged.
func ToMrkdwn(text string) string {
	var result []string
	var tableRows [][]string
	inTable := false

	flushTable := func() {
		if len(tableRows) == 0 {
			return
		}
		headers := tableRows[0]
		for _, row := range tableRows[1:] {
			if len(row) < len(headers) {
				continue
			}
			var parts []string
			for i := range headers {
				if row[i] != "" {
					parts = append(parts, fmt.Sprintf("%s: %s", headers[i], row[i]))
				}
			}
			result = append(result, "• "+strings.Join(parts, " / "))
		}
		tableRows = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") && strings.HasPrefix(strings.TrimSpace(line), "|") {
			inTable = true
			if tableSepRe.MatchString(line) {
				continue
			}
			cols := strings.Split(line, "|")
			if len(cols) > 2 {
				cells := make([]string, 0, len(cols)-2)
				for _, c := range cols[1 : len(cols)-1] {
					cells = append(cells, strings.TrimSpace(c))
				}
				tableRows = append(tableRows, cells)
			}
			continue
		}
		if inTable {
			flushTable()
			inTable = false
		}

		switch {
		case strings.HasPrefix(line, "# "):
			result = append(result, "\n*"+strings.TrimSpace(line[2:])+"*")
		case strings.HasPrefix(line, "## "):
			result = append(result, "\n*"+strings.TrimSpace(line[3:])+"*")
		case strings.HasPrefix(line, "### "):
			result = append(result, "*"+strings.TrimSpace(line[4:])+"*")
		default:
			result = append(result, boldRe.ReplaceAllString(line, "*$1*"))
		}
	}
	flushTable()

	return strings.Join(result, "\n")
}
