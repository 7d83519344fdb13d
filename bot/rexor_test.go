package bot

import (
	"context"
	"testing"

	"github.com/codenamesimon/developers-day-slackbot/game"
)

func newTestRexor(t *testing.T) (*Rexor, *fakeSlack, game.Store) {
	t.Helper()
	slack := newFakeSlack(t)
	store := game.NewFileStore(t.TempDir())
	if err := store.Ensure(); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	cfg := PersonaConfig{
		Name:              "rexor",
		OAuthSecretName:   "rexor-oauth-token",
		SigningSecretName: "rexor-signing-secret",
		AnswersSecretName: "rexor-task-codes",
	}
	src := testSecrets(map[string]string{"rexor-task-codes": "QXJyYWtpcw,R2llZGk,S2FpdGFpbg"})
	x, err := NewRexor(quietLogger(), cfg, src, store, slack.client(), mustReplies(t))
	if err != nil {
		t.Fatalf("NewRexor() error: %v", err)
	}
	return x, slack, store
}

func TestRexorCollectsCodesAcrossMessages(t *testing.T) {
	t.Parallel()

	x, slack, store := newTestRexor(t)
	ctx := context.Background()

	if err := x.ProcessDirectMessage(ctx, "found QXJyYWtpcw on the fridge", "U1", "D1"); err != nil {
		t.Fatalf("first code error: %v", err)
	}
	want := mustRender(t, x.replies, game.LangPolish, "rexor_progress", map[string]any{"Found": 1, "Total": 3})
	if got := slack.lastPost(t); got.Text != want {
		t.Fatalf("progress reply = %q, want %q", got.Text, want)
	}

	if err := x.ProcessDirectMessage(ctx, "R2llZGk and also S2FpdGFpbg", "U1", "D1"); err != nil {
		t.Fatalf("final codes error: %v", err)
	}
	wantSolved := mustRender(t, x.replies, game.LangPolish, "rexor_solved", map[string]any{"Total": 3})
	if got := slack.lastPost(t); got.Text != wantSolved {
		t.Fatalf("solved reply = %q, want %q", got.Text, wantSolved)
	}

	user, _, _ := store.Get(ctx, "U1")
	task := user.Task(rexorTaskID)
	if !task.Completed() {
		t.Fatal("task not completed after all codes found")
	}
	if task.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", task.Attempts)
	}
}

func TestRexorRepeatedCodeDoesNotDouble(t *testing.T) {
	t.Parallel()

	x, slack, _ := newTestRexor(t)
	ctx := context.Background()

	for range 2 {
		if err := x.ProcessDirectMessage(ctx, "QXJyYWtpcw", "U1", "D1"); err != nil {
			t.Fatalf("ProcessDirectMessage() error: %v", err)
		}
	}
	want := mustRender(t, x.replies, game.LangPolish, "rexor_progress", map[string]any{"Found": 1, "Total": 3})
	if got := slack.lastPost(t); got.Text != want {
		t.Fatalf("reply after repeat = %q, want still 1 of 3 (%q)", got.Text, want)
	}
}

func TestRexorUnrecognizedText(t *testing.T) {
	t.Parallel()

	x, slack, store := newTestRexor(t)
	ctx := context.Background()

	if err := x.ProcessDirectMessage(ctx, "is it under the plant?", "U1", "D1"); err != nil {
		t.Fatalf("ProcessDirectMessage() error: %v", err)
	}
	want := mustRender(t, x.replies, game.LangPolish, "rexor_no_guess", nil)
	if got := slack.lastPost(t); got.Text != want {
		t.Fatalf("reply = %q, want %q", got.Text, want)
	}
	user, _, _ := store.Get(ctx, "U1")
	if task := user.Task(rexorTaskID); task != nil && task.Attempts != 0 {
		t.Fatalf("attempts = %d, want 0 for unrecognized text", task.Attempts)
	}
}

func TestRexorStatusShowsProgress(t *testing.T) {
	t.Parallel()

	x, slack, _ := newTestRexor(t)
	ctx := context.Background()

	if err := x.ProcessDirectMessage(ctx, "R2llZGk", "U1", "D1"); err != nil {
		t.Fatalf("code error: %v", err)
	}
	if err := x.ProcessDirectMessage(ctx, "status", "U1", "D1"); err != nil {
		t.Fatalf("status error: %v", err)
	}
	want := mustRender(t, x.replies, game.LangPolish, "rexor_progress", map[string]any{"Found": 1, "Total": 3})
	if got := slack.lastPost(t); got.Text != want {
		t.Fatalf("status reply = %q, want %q", got.Text, want)
	}
}
