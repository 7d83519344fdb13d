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

// PostToResponseURL answers a slash command through its one-shot
// response callback URL. Ephemeral replies are visible only to the
// invoking user. Response URLs are single-use, so there is no retry.
func (c *Client) PostToResponseURL(ctx context.Context, responseURL, text string, ephemeral bool) error {
	if c == nil || c.http == nil {
		return fmt.Errorf("slack client is not initialized")
	}
	responseURL = strings.TrimSpace(responseURL)
	text = strings.TrimSpace(text)
	if responseURL == "" {
		return fmt.Errorf("response_url is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	responseType := "in_channel"
	if ephemeral {
		responseType = "ephemeral"
	}
	payload := map[string]string{
		"response_type": responseType,
		"text":          text,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(bodyRaw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack response_url http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
