// Package summarize provides a client for the text summarization HTTP service
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"worklog/internal/errors"
	"worklog/internal/resilience"
	"worklog/internal/trace"
)

// Client talks to the summarization endpoint. Transient failures (429, 5xx,
// transport errors) are retried with backoff; client errors are not.
type Client struct {
	endpoint string
	model    string
	http     *http.Client
	retry    resilience.RetryConfig
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// New creates a client for the given endpoint and model.
func New(endpoint, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		http:     &http.Client{Timeout: timeout},
		retry:    resilience.LLMRetryConfig(),
	}
}

// Generate sends prompt to the summarization service and returns its text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnknown, "encode request")
	}

	ctx, span := trace.StartSpan(ctx, "summarize.generate")
	defer span.End()

	var text string
	err = resilience.Retry(ctx, c.retry, func() error {
		result, err := c.generateOnce(ctx, body)
		if err != nil {
			return err
		}
		text = result
		return nil
	})
	if err != nil {
		return "", err
	}
	span.SetAttr("response_chars", len(text))
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnknown, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnavailable, "call summarization service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code := errors.CodeUnknown
		if resilience.IsRetryableStatus(resp.StatusCode) {
			code = errors.CodeUnavailable
		}
		return "", errors.Newf(code, "summarization service returned %d", resp.StatusCode).
			WithMetadata("status", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUnavailable, "read response")
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errors.Wrap(err, errors.CodeUnknown, "decode response")
	}
	return out.Text, nil
}
