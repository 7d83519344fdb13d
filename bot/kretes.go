package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codenamesimon/developers-day-slackbot/game"
	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
	"github.com/codenamesimon/developers-day-slackbot/internal/slackclient"
)

const kretesTaskID = "task1"

// Keyword groups are checked in fixed precedence so "pomoc ze statusem"
// reads as a help request, not a status request. Matching happens on
// folded text.
var (
	keywordsEnglish  = []string{"english", "angielski"}
	keywordsPolish   = []string{"polski", "polsku"}
	keywordsHelp     = []string{"help", "pomoc"}
	keywordsWithdraw = []string{"withdraw", "rezygnuj"}
	keywordsStatus   = []string{"status"}
)

func containsAny(folded string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// Kretes runs the mole-hunt riddle: users must name every hidden mole in
// a single message, by mention. The answer set lives in a secret and is
// resolved per message so it can be rotated without a restart.
type Kretes struct {
	speaker
	cfg     PersonaConfig
	secrets secrets.Source
	store   game.Store
	replies *game.Replies
	policy  game.Policy
}

// NewKretes validates the config and builds the persona.
func NewKretes(log *slog.Logger, cfg PersonaConfig, src secrets.Source, store game.Store, slack *slackclient.Client, replies *game.Replies, policy game.Policy) (*Kretes, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Kretes{
		speaker: speaker{log: log.With("persona", cfg.Name), slack: slack},
		cfg:     cfg,
		secrets: src,
		store:   store,
		replies: replies,
		policy:  policy,
	}, nil
}

func (k *Kretes) Name() string              { return k.cfg.Name }
func (k *Kretes) OAuthSecretName() string   { return k.cfg.OAuthSecretName }
func (k *Kretes) SigningSecretName() string { return k.cfg.SigningSecretName }

func (k *Kretes) answers(ctx context.Context) ([]string, error) {
	raw, err := k.secrets.Get(ctx, k.cfg.AnswersSecretName)
	if err != nil {
		return nil, fmt.Errorf("resolve answers: %w", err)
	}
	return splitSecretList(raw)
}

func splitSecretList(raw string) ([]string, error) {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("secret list is empty")
	}
	return out, nil
}

// loadOrCreateUser returns the stored record, creating one on first
// contact. The contact address comes from users.info; a profile without
// an email falls back to the display name.
func loadOrCreateUser(ctx context.Context, store game.Store, slack *slackclient.Client, userID string) (*game.User, error) {
	user, ok, err := store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ok {
		return user, nil
	}
	profile, err := slack.UserInfo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up new user: %w", err)
	}
	contact := profile.Email
	if contact == "" {
		contact = profile.DisplayName
	}
	if contact == "" {
		contact = profile.Name
	}
	user = game.NewUser(userID, contact, game.LangPolish)
	if err := store.Put(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ProcessDirectMessage implements Persona.
func (k *Kretes) ProcessDirectMessage(ctx context.Context, text, userID, channelID string) error {
	user, err := loadOrCreateUser(ctx, k.store, k.slack, userID)
	if err != nil {
		return err
	}

	folded := game.Fold(text)
	var reply string
	persist := true

	switch {
	case containsAny(folded, keywordsEnglish):
		user.Language = game.LangEnglish
		reply, err = k.replies.Render(user.Language, "language_set", nil)
	case containsAny(folded, keywordsPolish):
		user.Language = game.LangPolish
		reply, err = k.replies.Render(user.Language, "language_set", nil)
	case containsAny(folded, keywordsHelp):
		persist = false
		reply, err = k.replies.Render(user.Language, "kretes_help", nil)
	case containsAny(folded, keywordsWithdraw):
		reply, err = k.replies.Render(user.Language, "withdrawn", nil)
		if err == nil {
			persist = false
			if err = k.store.Delete(ctx, userID); err != nil {
				return fmt.Errorf("withdraw user: %w", err)
			}
			k.log.Info("user_withdrawn", "user_id", userID)
		}
	case containsAny(folded, keywordsStatus):
		persist = false
		reply, err = k.statusReply(user)
	default:
		reply, err = k.guessReply(ctx, user, text)
	}
	if err != nil {
		return err
	}

	if persist {
		if err := k.store.Put(ctx, user); err != nil {
			return err
		}
	}
	if err := k.slack.PostMessage(ctx, channelID, reply, ""); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

func (k *Kretes) statusReply(user *game.User) (string, error) {
	task := user.Task(kretesTaskID)
	switch {
	case task.Completed():
		return k.replies.Render(user.Language, "kretes_status_done", map[string]any{"Attempts": task.Attempts})
	case task == nil || task.Attempts == 0:
		return k.replies.Render(user.Language, "kretes_status_new", nil)
	default:
		return k.replies.Render(user.Language, "kretes_status_open", map[string]any{
			"Attempts":   task.Attempts,
			"GuessCount": len(task.Guesses),
		})
	}
}

func (k *Kretes) guessReply(ctx context.Context, user *game.User, text string) (string, error) {
	answers, err := k.answers(ctx)
	if err != nil {
		return "", err
	}
	machine := game.Machine{TaskID: kretesTaskID, Answers: answers, Policy: k.policy}
	outcome := machine.SubmitGuess(user, text)
	k.log.Info("guess_scored", "user_id", user.SlackID, "outcome", string(outcome))

	data := map[string]any{"Required": len(answers)}
	switch outcome {
	case game.OutcomeAlreadyCompleted:
		return k.replies.Render(user.Language, "kretes_already", nil)
	case game.OutcomeNoGuess:
		return k.replies.Render(user.Language, "kretes_no_guess", nil)
	case game.OutcomeTooFewHandles:
		return k.replies.Render(user.Language, "kretes_too_few", data)
	case game.OutcomeTooManyHandles:
		return k.replies.Render(user.Language, "kretes_too_many", nil)
	case game.OutcomeSolved:
		return k.replies.Render(user.Language, "kretes_solved", nil)
	default:
		return k.replies.Render(user.Language, "kretes_partial", nil)
	}
}

// ProcessCommand implements Persona.
func (k *Kretes) ProcessCommand(ctx context.Context, text, channelID, userID, responseURL, threadTS string) error {
	return k.speak(ctx, text, channelID, responseURL, threadTS)
}
