package main

import (
	"github.com/spf13/viper"
)

func initViperDefaults() {
	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.add_source", false)

	// Server
	viper.SetDefault("server.bind", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	// Slack
	viper.SetDefault("slack.base_url", "https://slack.com/api")
	viper.SetDefault("slack.skip_verify", false)

	// Secrets
	viper.SetDefault("secrets.provider", "env")
	viper.SetDefault("secrets.dir", "")

	// Store
	viper.SetDefault("store.dir_name", "users")

	// Game
	viper.SetDefault("game.policy", "strict")

	// Personas
	viper.SetDefault("personas.kretes.oauth_secret", "kretes-oauth-token")
	viper.SetDefault("personas.kretes.signing_secret", "kretes-signing-secret")
	viper.SetDefault("personas.kretes.answers_secret", "kretes-task-answers")
	viper.SetDefault("personas.rexor.oauth_secret", "rexor-oauth-token")
	viper.SetDefault("personas.rexor.signing_secret", "rexor-signing-secret")
	viper.SetDefault("personas.rexor.answers_secret", "rexor-task-codes")
}
