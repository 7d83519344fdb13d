// Package slackclient is a minimal Slack Web API client covering the
// calls the bot personas make: posting channel messages, answering
// slash-command response URLs, and looking up user profiles.
package slackclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://slack.com/api"

// TokenFunc resolves the bearer credential at call time, so rotated
// secrets take effect without a restart.
type TokenFunc func(ctx context.Context) (string, error)

type Client struct {
	http    *http.Client
	baseURL string
	token   TokenFunc
}

func New(httpClient *http.Client, baseURL string, token TokenFunc) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   token,
	}
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.token == nil {
		return "", fmt.Errorf("slack token resolver is not configured")
	}
	token, err := c.token(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve slack token: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("slack token is required")
	}
	return token, nil
}

func retryDelay(status int, headers http.Header, attempt int) (time.Duration, bool) {
	switch {
	case status == http.StatusTooManyRequests:
		retryAfter := strings.TrimSpace(headers.Get("Retry-After"))
		if retryAfter == "" {
			return 1 * time.Second, true
		}
		secs, err := strconv.Atoi(retryAfter)
		if err != nil || secs <= 0 {
			return 1 * time.Second, true
		}
		return time.Duration(secs) * time.Second, true
	case status >= 500 && status <= 599:
		switch attempt {
		case 1:
			return 300 * time.Millisecond, true
		case 2:
			return 1 * time.Second, true
		default:
			return 2 * time.Second, true
		}
	default:
		return 0, false
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
