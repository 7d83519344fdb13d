package slackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PostMessage sends a channel message through chat.postMessage,
// optionally threaded. Rate-limit and server errors are retried a
// bounded number of times.
func (c *Client) PostMessage(ctx context.Context, channelID, text, threadTS string) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("slack client is not initialized")
	}
	channelID = strings.TrimSpace(channelID)
	text = strings.TrimSpace(text)
	threadTS = strings.TrimSpace(threadTS)
	if channelID == "" {
		return fmt.Errorf("channel_id is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}
	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	type requestBody struct {
		Channel  string `json:"channel"`
		Text     string `json:"text"`
		ThreadTS string `json:"thread_ts,omitempty"`
	}
	type responseBody struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	payload := requestBody{
		Channel:  channelID,
		Text:     text,
		ThreadTS: threadTS,
	}
	const maxAttempts = 3
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		bodyRaw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal slack payload: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(bodyRaw))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		status := 0
		headers := http.Header{}
		if err != nil {
			lastErr = err
		} else {
			status = resp.StatusCode
			headers = resp.Header
			respRaw, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = readErr
			} else {
				var out responseBody
				if parseErr := json.Unmarshal(respRaw, &out); parseErr != nil {
					lastErr = parseErr
				} else if status < 200 || status >= 300 {
					lastErr = fmt.Errorf("slack chat.postMessage http %d", status)
				} else if out.OK {
					return nil
				} else {
					code := strings.TrimSpace(out.Error)
					if code == "" {
						code = "unknown_error"
					}
					lastErr = fmt.Errorf("slack chat.postMessage failed: %s", code)
				}
			}
		}

		if attempt >= maxAttempts {
			break
		}
		if status == 0 {
			status = http.StatusBadGateway
		}
		wait, retryable := retryDelay(status, headers, attempt)
		if !retryable {
			break
		}
		if err := sleepWithContext(ctx, wait); err != nil {
			return err
		}
	}
	return lastErr
}
