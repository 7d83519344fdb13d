package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
	"github.com/codenamesimon/developers-day-slackbot/internal/signature"
	"github.com/codenamesimon/developers-day-slackbot/internal/slackclient"
	"github.com/codenamesimon/developers-day-slackbot/internal/threadref"
)

const (
	headerTimestamp = "X-Slack-Request-Timestamp"
	headerSignature = "X-Slack-Signature"

	// commandAllowListSecret holds the comma-separated Slack ids allowed
	// to drive the personas via slash commands.
	commandAllowListSecret = "command-authed-users"

	maxBodyBytes = 1 << 20

	// processTimeout bounds the detached phase; the HTTP response has
	// already gone out by then.
	processTimeout = 30 * time.Second
)

const (
	replyNotAuthorized = "Sorry, you are not authorized to use this command."
	replyTextRequired  = "The command needs some text to pass along."
)

// Dispatcher terminates webhooks for a single persona.
//
// Both handlers follow the same shape: authenticate, acknowledge with 200
// before any side effect, then process on a goroutine supplied by Detach.
// Whatever fails after the ACK is logged and dropped; Slack never sees a
// late error and nothing is retried.
type Dispatcher struct {
	log     *slog.Logger
	secrets secrets.Source
	persona Persona
	slack   *slackclient.Client

	skipVerify bool
	now        func() time.Time
	detach     func(fn func())
}

// NewDispatcher wires a dispatcher for one persona. slack is only used
// for response-URL posts, which carry no credential.
func NewDispatcher(log *slog.Logger, src secrets.Source, persona Persona, slack *slackclient.Client, skipVerify bool) *Dispatcher {
	d := &Dispatcher{
		log:        log.With("persona", persona.Name()),
		secrets:    src,
		persona:    persona,
		slack:      slack,
		skipVerify: skipVerify,
		now:        time.Now,
	}
	d.detach = func(fn func()) { go fn() }
	return d
}

func (d *Dispatcher) verify(r *http.Request, rawBody []byte) bool {
	var secret string
	if !d.skipVerify {
		s, err := d.secrets.Get(r.Context(), d.persona.SigningSecretName())
		if err != nil {
			d.log.Error("signing_secret_unavailable", "error", err)
			return false
		}
		secret = s
	}
	v := signature.Verifier{Secret: secret, SkipVerify: d.skipVerify, Now: d.now}
	if err := v.Verify(r.Header.Get(headerTimestamp), r.Header.Get(headerSignature), rawBody); err != nil {
		d.log.Warn("signature_rejected", "error", err, "remote", r.RemoteAddr)
		return false
	}
	return true
}

func (d *Dispatcher) spawn(requestID string, fn func(ctx context.Context)) {
	d.detach(func() {
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error("handler_panic", "request_id", requestID, "panic", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		fn(ctx)
	})
}

type eventEnvelope struct {
	Type      string     `json:"type"`
	Challenge string     `json:"challenge"`
	Event     innerEvent `json:"event"`
}

type innerEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	BotID   string `json:"bot_id"`
	Text    string `json:"text"`
	User    string `json:"user"`
	Channel string `json:"channel"`
}

// HandleEvent serves POST /<persona>/events.
func (d *Dispatcher) HandleEvent(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		d.log.Warn("event_body_unreadable", "request_id", requestID, "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !d.verify(r, body) {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		d.log.Warn("event_malformed", "request_id", requestID, "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if envelope.Type == "url_verification" {
		json.NewEncoder(w).Encode(map[string]string{"challenge": envelope.Challenge})
		d.log.Info("url_verification_ack", "request_id", requestID)
		return
	}
	w.Write([]byte("{}"))
	d.log.Info("event_ack", "request_id", requestID, "event_type", envelope.Event.Type)

	d.spawn(requestID, func(ctx context.Context) {
		ev := envelope.Event
		if envelope.Type != "event_callback" || ev.Type != "message" || ev.BotID != "" || ev.User == "" {
			d.log.Debug("event_skipped", "request_id", requestID, "event_type", ev.Type)
			return
		}
		if err := d.persona.ProcessDirectMessage(ctx, ev.Text, ev.User, ev.Channel); err != nil {
			d.log.Error("event_process_failed", "request_id", requestID, "user_id", ev.User, "error", err)
		}
	})
}

// HandleCommand serves POST /<persona>/command.
func (d *Dispatcher) HandleCommand(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		d.log.Warn("command_body_unreadable", "request_id", requestID, "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !d.verify(r, body) {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		d.log.Warn("command_malformed", "request_id", requestID, "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	d.log.Info("command_ack", "request_id", requestID)

	text := form.Get("text")
	userID := form.Get("user_id")
	channelID := form.Get("channel_id")
	responseURL := form.Get("response_url")

	d.spawn(requestID, func(ctx context.Context) {
		ok, err := d.userAllowed(ctx, userID)
		if err != nil {
			d.log.Error("allow_list_unavailable", "request_id", requestID, "error", err)
			return
		}
		if !ok {
			d.log.Warn("command_denied", "request_id", requestID, "user_id", userID)
			d.ephemeral(ctx, requestID, responseURL, replyNotAuthorized)
			return
		}
		if strings.TrimSpace(text) == "" {
			d.ephemeral(ctx, requestID, responseURL, replyTextRequired)
			return
		}
		remaining, threadTS := threadref.Extract(text)
		if threadTS != "" {
			d.log.Debug("thread_ref_extracted", "request_id", requestID, "thread_ts", threadTS)
		}
		if err := d.persona.ProcessCommand(ctx, remaining, channelID, userID, responseURL, threadTS); err != nil {
			d.log.Error("command_process_failed", "request_id", requestID, "user_id", userID, "error", err)
		}
	})
}

func (d *Dispatcher) userAllowed(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	raw, err := d.secrets.Get(ctx, commandAllowListSecret)
	if err != nil {
		return false, err
	}
	for _, id := range strings.Split(raw, ",") {
		if strings.TrimSpace(id) == userID {
			return true, nil
		}
	}
	return false, nil
}

func (d *Dispatcher) ephemeral(ctx context.Context, requestID, responseURL, text string) {
	if responseURL == "" {
		return
	}
	if err := d.slack.PostToResponseURL(ctx, responseURL, text, true); err != nil {
		d.log.Error("slack_send_error", "request_id", requestID, "error", err)
	}
}
