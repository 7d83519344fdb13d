package slackclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// UserProfile is the subset of users.info the bot needs to create a
// user record.
type UserProfile struct {
	ID          string
	Name        string
	Email       string
	DisplayName string
}

// UserInfo looks up a user's profile by Slack id.
func (c *Client) UserInfo(ctx context.Context, userID string) (UserProfile, error) {
	if c == nil || c.http == nil {
		return UserProfile{}, fmt.Errorf("slack client is not initialized")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserProfile{}, fmt.Errorf("user_id is required")
	}
	token, err := c.bearer(ctx)
	if err != nil {
		return UserProfile{}, err
	}

	endpoint := c.baseURL + "/users.info?" + url.Values{"user": {userID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UserProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return UserProfile{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return UserProfile{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return UserProfile{}, fmt.Errorf("slack users.info http %d", resp.StatusCode)
	}

	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
		User  struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Profile struct {
				Email       string `json:"email"`
				DisplayName string `json:"display_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return UserProfile{}, err
	}
	if !out.OK {
		code := strings.TrimSpace(out.Error)
		if code == "" {
			code = "unknown_error"
		}
		return UserProfile{}, fmt.Errorf("slack users.info failed: %s", code)
	}
	return UserProfile{
		ID:          strings.TrimSpace(out.User.ID),
		Name:        strings.TrimSpace(out.User.Name),
		Email:       strings.TrimSpace(out.User.Profile.Email),
		DisplayName: strings.TrimSpace(out.User.Profile.DisplayName),
	}, nil
}
