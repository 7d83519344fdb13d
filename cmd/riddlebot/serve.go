package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codenamesimon/developers-day-slackbot/bot"
	"github.com/codenamesimon/developers-day-slackbot/game"
	"github.com/codenamesimon/developers-day-slackbot/internal/configutil"
	"github.com/codenamesimon/developers-day-slackbot/internal/logutil"
	"github.com/codenamesimon/developers-day-slackbot/internal/secrets"
	"github.com/codenamesimon/developers-day-slackbot/internal/slackclient"
	"github.com/codenamesimon/developers-day-slackbot/internal/statepaths"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server hosting the bot personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			bind := strings.TrimSpace(configutil.FlagOrViperString(cmd, "server-bind", "server.bind"))
			if bind == "" {
				bind = "0.0.0.0"
			}
			port := configutil.FlagOrViperInt(cmd, "server-port", "server.port")
			if port <= 0 {
				port = 8080
			}

			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			src, err := secrets.FromViper()
			if err != nil {
				return err
			}

			store := game.NewFileStore(statepaths.UsersDir())
			if err := store.Ensure(); err != nil {
				return fmt.Errorf("prepare user store: %w", err)
			}

			replies, err := game.LoadReplies()
			if err != nil {
				return err
			}

			skipVerify := viper.GetBool("slack.skip_verify")
			if skipVerify {
				logger.Warn("signature_verification_disabled")
			}

			policy := game.ParsePolicy(viper.GetString("game.policy"))
			baseURL := viper.GetString("slack.base_url")

			kretesClient := personaClient(src, baseURL, "kretes")
			kretes, err := bot.NewKretes(logger, personaConfig("kretes"), src, store, kretesClient, replies, policy)
			if err != nil {
				return err
			}
			rexorClient := personaClient(src, baseURL, "rexor")
			rexor, err := bot.NewRexor(logger, personaConfig("rexor"), src, store, rexorClient, replies)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ok":   true,
					"time": time.Now().Format(time.RFC3339Nano),
				})
			})
			mounts := []struct {
				persona bot.Persona
				client  *slackclient.Client
			}{
				{kretes, kretesClient},
				{rexor, rexorClient},
			}
			for _, m := range mounts {
				d := bot.NewDispatcher(logger, src, m.persona, m.client, skipVerify)
				mux.HandleFunc("/"+m.persona.Name()+"/events", postOnly(d.HandleEvent))
				mux.HandleFunc("/"+m.persona.Name()+"/command", postOnly(d.HandleCommand))
			}
			mux.HandleFunc("/report", bot.ReportHandler(logger, src, store, gameTaskIDs()))

			addr := bind + ":" + strconv.Itoa(port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			logger.Info("server_start", "addr", addr, "secrets_provider", viper.GetString("secrets.provider"))

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("server_shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String("server-bind", "0.0.0.0", "Bind address.")
	cmd.Flags().Int("server-port", 8080, "HTTP port to listen on.")

	return cmd
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func personaConfig(name string) bot.PersonaConfig {
	key := "personas." + name + "."
	return bot.PersonaConfig{
		Name:              name,
		OAuthSecretName:   viper.GetString(key + "oauth_secret"),
		SigningSecretName: viper.GetString(key + "signing_secret"),
		AnswersSecretName: viper.GetString(key + "answers_secret"),
	}
}

func personaClient(src secrets.Source, baseURL, name string) *slackclient.Client {
	secretName := viper.GetString("personas." + name + ".oauth_secret")
	return slackclient.New(nil, baseURL, func(ctx context.Context) (string, error) {
		return src.Get(ctx, secretName)
	})
}

func gameTaskIDs() []string {
	return []string{"task1", "task2"}
}
