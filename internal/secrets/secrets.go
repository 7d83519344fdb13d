// Package secrets resolves named secrets (signing secrets, tokens,
// answer lists) from a configured provider. Secret names are the
// lowercase dashed identifiers the deployment uses, e.g.
// "kretes-signing-secret".
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var ErrNotFound = errors.New("secrets: not found")

// Source fetches the current value of a named secret.
type Source interface {
	Get(ctx context.Context, name string) (string, error)
}

// FromViper builds a Source from secrets.provider: "env" (default)
// or "dir" with secrets.dir pointing at a directory of one file per
// secret (the shape secret-manager volume mounts produce).
func FromViper() (Source, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("secrets.provider")))
	switch provider {
	case "", "env":
		return EnvSource{}, nil
	case "dir":
		dir := strings.TrimSpace(viper.GetString("secrets.dir"))
		if dir == "" {
			return nil, fmt.Errorf("secrets.provider=dir requires secrets.dir")
		}
		return DirSource{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unknown secrets.provider: %s", provider)
	}
}

// EnvSource reads secrets from the environment. The name
// "kretes-signing-secret" maps to KRETES_SIGNING_SECRET.
type EnvSource struct{}

func (EnvSource) Get(_ context.Context, name string) (string, error) {
	key, err := envKey(name)
	if err != nil {
		return "", err
	}
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s (env %s)", ErrNotFound, name, key)
	}
	return value, nil
}

func envKey(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("secrets: name is required")
	}
	key := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
	for _, r := range key {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			continue
		}
		return "", fmt.Errorf("secrets: invalid name %q", name)
	}
	return key, nil
}

// DirSource reads each secret from a file named after it inside Dir.
type DirSource struct {
	Dir string
}

func (s DirSource) Get(_ context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("secrets: name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("secrets: invalid name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("secrets: read %s: %w", name, err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("%w: %s (empty)", ErrNotFound, name)
	}
	return value, nil
}

// StaticSource serves fixed values; tests use it.
type StaticSource map[string]string

func (s StaticSource) Get(_ context.Context, name string) (string, error) {
	value, ok := s[strings.TrimSpace(name)]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}
