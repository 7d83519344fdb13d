package bot

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/codenamesimon/developers-day-slackbot/game"
	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
)

// reportTokenSecret names the bearer token guarding the report endpoint.
const reportTokenSecret = "command-token"

// ReportHandler serves a JSON progress snapshot over all stored users.
// Operators on the command allow-list are excluded from the numbers so
// their test runs do not skew the event stats.
func ReportHandler(log *slog.Logger, src secrets.Source, store game.Store, taskIDs []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		want, err := src.Get(ctx, reportTokenSecret)
		if err != nil {
			log.Error("report_token_unavailable", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			log.Warn("report_denied", "remote", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		users, err := store.List(ctx)
		if err != nil {
			log.Error("report_list_failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		exclude := make(map[string]bool)
		if raw, err := src.Get(ctx, commandAllowListSecret); err == nil {
			for _, id := range strings.Split(raw, ",") {
				if id = strings.TrimSpace(id); id != "" {
					exclude[id] = true
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(game.Summarize(users, taskIDs, exclude))
	}
}
