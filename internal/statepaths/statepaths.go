// Package statepaths resolves on-disk state locations from viper.
package statepaths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultStateDirName = ".developers-day-slackbot"

// StateDir returns the root directory for persistent state. An
// explicit file_state_dir wins; otherwise the default lives under the
// user home directory, falling back to the working directory.
func StateDir() string {
	if dir := strings.TrimSpace(viper.GetString("file_state_dir")); dir != "" {
		return expandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return defaultStateDirName
	}
	return filepath.Join(home, defaultStateDirName)
}

// UsersDir returns the directory holding one JSON document per user.
func UsersDir() string {
	name := strings.TrimSpace(viper.GetString("store.dir_name"))
	if name == "" {
		name = "users"
	}
	return filepath.Join(StateDir(), name)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
