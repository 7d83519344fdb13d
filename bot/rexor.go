package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codenamesimon/developers-day-slackbot/game"
	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
	"github.com/codenamesimon/developers-day-slackbot/internal/slackclient"
)

const rexorTaskID = "task2"

// Rexor runs the office code hunt: codes are hidden around the venue and
// users paste them in one at a time. Collection is cumulative, so the
// task completes once every code has been seen across any number of
// messages.
type Rexor struct {
	speaker
	cfg     PersonaConfig
	secrets secrets.Source
	store   game.Store
	replies *game.Replies
}

// NewRexor validates the config and builds the persona.
func NewRexor(log *slog.Logger, cfg PersonaConfig, src secrets.Source, store game.Store, slack *slackclient.Client, replies *game.Replies) (*Rexor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Rexor{
		speaker: speaker{log: log.With("persona", cfg.Name), slack: slack},
		cfg:     cfg,
		secrets: src,
		store:   store,
		replies: replies,
	}, nil
}

func (x *Rexor) Name() string              { return x.cfg.Name }
func (x *Rexor) OAuthSecretName() string   { return x.cfg.OAuthSecretName }
func (x *Rexor) SigningSecretName() string { return x.cfg.SigningSecretName }

func (x *Rexor) codes(ctx context.Context) ([]string, error) {
	raw, err := x.secrets.Get(ctx, x.cfg.AnswersSecretName)
	if err != nil {
		return nil, fmt.Errorf("resolve codes: %w", err)
	}
	return splitSecretList(raw)
}

func (x *Rexor) machine(codes []string) game.Machine {
	return game.Machine{
		TaskID:     rexorTaskID,
		Answers:    codes,
		Policy:     game.PolicyLenient,
		Cumulative: true,
		Extract:    game.ExtractCodes(codes),
		Match:      game.ContainsMatch,
	}
}

// ProcessDirectMessage implements Persona.
func (x *Rexor) ProcessDirectMessage(ctx context.Context, text, userID, channelID string) error {
	user, err := loadOrCreateUser(ctx, x.store, x.slack, userID)
	if err != nil {
		return err
	}
	codes, err := x.codes(ctx)
	if err != nil {
		return err
	}

	folded := game.Fold(text)
	var reply string
	persist := true

	switch {
	case containsAny(folded, keywordsEnglish):
		user.Language = game.LangEnglish
		reply, err = x.replies.Render(user.Language, "language_set", nil)
	case containsAny(folded, keywordsPolish):
		user.Language = game.LangPolish
		reply, err = x.replies.Render(user.Language, "language_set", nil)
	case containsAny(folded, keywordsHelp):
		persist = false
		reply, err = x.replies.Render(user.Language, "rexor_help", map[string]any{"Total": len(codes)})
	case containsAny(folded, keywordsWithdraw):
		reply, err = x.replies.Render(user.Language, "withdrawn", nil)
		if err == nil {
			persist = false
			if err = x.store.Delete(ctx, userID); err != nil {
				return fmt.Errorf("withdraw user: %w", err)
			}
			x.log.Info("user_withdrawn", "user_id", userID)
		}
	case containsAny(folded, keywordsStatus):
		persist = false
		reply, err = x.statusReply(user, codes)
	default:
		reply, err = x.guessReply(user, codes, text)
	}
	if err != nil {
		return err
	}

	if persist {
		if err := x.store.Put(ctx, user); err != nil {
			return err
		}
	}
	if err := x.slack.PostMessage(ctx, channelID, reply, ""); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

func (x *Rexor) statusReply(user *game.User, codes []string) (string, error) {
	task := user.Task(rexorTaskID)
	if task.Completed() {
		return x.replies.Render(user.Language, "rexor_solved", map[string]any{"Total": len(codes)})
	}
	return x.replies.Render(user.Language, "rexor_progress", map[string]any{
		"Found": x.machine(codes).Found(task),
		"Total": len(codes),
	})
}

func (x *Rexor) guessReply(user *game.User, codes []string, text string) (string, error) {
	machine := x.machine(codes)
	outcome := machine.SubmitGuess(user, text)
	x.log.Info("guess_scored", "user_id", user.SlackID, "outcome", string(outcome))

	total := map[string]any{"Total": len(codes)}
	switch outcome {
	case game.OutcomeAlreadyCompleted:
		return x.replies.Render(user.Language, "rexor_already", nil)
	case game.OutcomeNoGuess:
		return x.replies.Render(user.Language, "rexor_no_guess", nil)
	case game.OutcomeSolved:
		return x.replies.Render(user.Language, "rexor_solved", total)
	default:
		return x.replies.Render(user.Language, "rexor_progress", map[string]any{
			"Found": machine.Found(user.Task(rexorTaskID)),
			"Total": len(codes),
		})
	}
}

// ProcessCommand implements Persona.
func (x *Rexor) ProcessCommand(ctx context.Context, text, channelID, userID, responseURL, threadTS string) error {
	return x.speak(ctx, text, channelID, responseURL, threadTS)
}
