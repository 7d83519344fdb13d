// Package bot dispatches Slack webhooks to bot personas.
//
// A Dispatcher owns the inbound side of one persona: it authenticates the
// webhook, acknowledges it within Slack's deadline, and hands the payload
// off to the persona on a detached goroutine. Personas hold the game
// logic and talk back through the Slack REST client.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/codenamesimon/developers-day-slackbot/internal/slackclient"
)

// Persona is one bot identity hosted by the server.
type Persona interface {
	// Name is the URL path segment the persona is mounted under.
	Name() string
	// OAuthSecretName names the secret holding the persona's bot token.
	OAuthSecretName() string
	// SigningSecretName names the secret for webhook signature checks.
	SigningSecretName() string

	// ProcessDirectMessage handles one user message sent to the bot's DM
	// channel. Runs post-ACK; errors are for logging only.
	ProcessDirectMessage(ctx context.Context, text, userID, channelID string) error

	// ProcessCommand handles the slash command after authorization and
	// thread-reference extraction. Runs post-ACK.
	ProcessCommand(ctx context.Context, text, channelID, userID, responseURL, threadTS string) error
}

// PersonaConfig carries the per-persona wiring resolved from configuration.
type PersonaConfig struct {
	Name              string `validate:"required,lowercase,alphanum"`
	OAuthSecretName   string `validate:"required"`
	SigningSecretName string `validate:"required"`
	AnswersSecretName string `validate:"required"`
}

var validate = validator.New()

// Validate checks the config at startup so a missing secret name fails
// the boot instead of the first webhook.
func (c PersonaConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("persona config %q: %w", c.Name, err)
	}
	return nil
}

// speaker relays operator slash-command text as the persona's own voice.
// With a thread reference the message lands in that thread; otherwise it
// goes back through the response URL so it shows up in the channel the
// command was typed in.
type speaker struct {
	log   *slog.Logger
	slack *slackclient.Client
}

func (s speaker) speak(ctx context.Context, text, channelID, responseURL, threadTS string) error {
	if threadTS != "" {
		if err := s.slack.PostMessage(ctx, channelID, text, threadTS); err != nil {
			return fmt.Errorf("post to thread: %w", err)
		}
		s.log.Info("command_spoken", "channel_id", channelID, "thread_ts", threadTS)
		return nil
	}
	if err := s.slack.PostToResponseURL(ctx, responseURL, text, false); err != nil {
		return fmt.Errorf("post to response url: %w", err)
	}
	s.log.Info("command_spoken", "channel_id", channelID)
	return nil
}
