package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// postJSON delivers a webhook payload and classifies the failure mode.
// 429 and 5xx responses are transient, other non-2xx are permanent.
func postJSON(ctx context.Context, client *http.Client, channel, webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &SendError{Channel: channel, Permanent: true, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return &SendError{Channel: channel, Permanent: true, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &SendError{Channel: channel, Err: fmt.Errorf("post webhook: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(snippet))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &SendError{Channel: channel, Err: err}
	}
	return &SendError{Channel: channel, Permanent: true, Err: err}
}

func newWebhookClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
