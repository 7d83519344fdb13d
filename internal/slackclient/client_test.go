package slackclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func staticToken(token string) TokenFunc {
	return func(context.Context) (string, error) { return token, nil }
}

func TestPostMessageRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer xoxb-test" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer xoxb-test")
		}
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "ratelimited"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, staticToken("xoxb-test"))
	if err := c.PostMessage(context.Background(), "C1", "hello", "123.456"); err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("PostMessage() attempts = %d, want 2", calls.Load())
	}
}

func TestPostMessageAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, staticToken("xoxb-test"))
	err := c.PostMessage(context.Background(), "C1", "hello", "")
	if err == nil {
		t.Fatalf("PostMessage() expected error")
	}
}

func TestPostToResponseURL(t *testing.T) {
	t.Parallel()

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.Client(), "", staticToken("xoxb-test"))
	if err := c.PostToResponseURL(context.Background(), srv.URL, "denied", true); err != nil {
		t.Fatalf("PostToResponseURL() error = %v", err)
	}
	if got["response_type"] != "ephemeral" || got["text"] != "denied" {
		t.Fatalf("PostToResponseURL() payload = %v", got)
	}
}

func TestUserInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user"); got != "U123" {
			t.Errorf("user = %q, want U123", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"user": map[string]any{
				"id":   "U123",
				"name": "kowalski",
				"profile": map[string]any{
					"email":        "kowalski@example.com",
					"display_name": "Kowalski",
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.Client(), srv.URL, staticToken("xoxb-test"))
	profile, err := c.UserInfo(context.Background(), "U123")
	if err != nil {
		t.Fatalf("UserInfo() error = %v", err)
	}
	if profile.ID != "U123" || profile.Email != "kowalski@example.com" {
		t.Fatalf("UserInfo() = %+v", profile)
	}
}
