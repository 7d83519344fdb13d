package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codenamesimon/developers-day-slackbot/game"
)

func TestReportHandlerRequiresToken(t *testing.T) {
	t.Parallel()

	store := game.NewFileStore(t.TempDir())
	src := testSecrets(map[string]string{reportTokenSecret: "sekret"})
	handler := ReportHandler(quietLogger(), src, store, []string{"task1"})

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/report", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token = %d, want 401", rec.Code)
	}
}

func TestReportHandlerExcludesOperators(t *testing.T) {
	t.Parallel()

	store := game.NewFileStore(t.TempDir())
	if err := store.Ensure(); err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, game.NewUser("U1", "a@example.com", game.LangPolish)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Put(ctx, game.NewUser("UOP1", "op@example.com", game.LangPolish)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	src := testSecrets(map[string]string{reportTokenSecret: "sekret"})
	handler := ReportHandler(quietLogger(), src, store, []string{"task1", "task2"})

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var report game.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Players != 1 {
		t.Fatalf("Players = %d, want operator excluded", report.Players)
	}
	if len(report.Rows) != 1 || report.Rows[0].SlackID != "U1" {
		t.Fatalf("rows = %+v, want only U1", report.Rows)
	}
}
