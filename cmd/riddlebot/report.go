package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codenamesimon/developers-day-slackbot/game"
	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
	"github.com/codenamesimon/developers-day-slackbot/internal/statepaths"
)

// newReportCmd prints the same progress snapshot the /report endpoint
// serves, straight from the local store. Handy on the box itself, where
// no bearer token is needed.
func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a progress snapshot from the local user store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := game.NewFileStore(statepaths.UsersDir())
			users, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			exclude := make(map[string]bool)
			if src, err := secrets.FromViper(); err == nil {
				if raw, err := src.Get(context.Background(), "command-authed-users"); err == nil {
					for _, id := range strings.Split(raw, ",") {
						if id = strings.TrimSpace(id); id != "" {
							exclude[id] = true
						}
					}
				}
			}

			taskIDs := viper.GetStringSlice("report.tasks")
			if len(taskIDs) == 0 {
				taskIDs = gameTaskIDs()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(game.Summarize(users, taskIDs, exclude))
		},
	}
}
