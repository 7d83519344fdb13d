package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvSource(t *testing.T) {
	t.Setenv("KRETES_SIGNING_SECRET", "s3cret")

	got, err := (EnvSource{}).Get(context.Background(), "kretes-signing-secret")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("Get() = %q, want %q", got, "s3cret")
	}
}

func TestEnvSourceMissing(t *testing.T) {
	t.Setenv("SOME_ABSENT_SECRET", "")

	_, err := (EnvSource{}).Get(context.Background(), "some-absent-secret")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDirSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "command-token"), []byte("tok-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	src := DirSource{Dir: dir}

	got, err := src.Get(context.Background(), "command-token")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "tok-1" {
		t.Fatalf("Get() = %q, want %q", got, "tok-1")
	}

	if _, err := src.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(absent) error = %v, want ErrNotFound", err)
	}
	if _, err := src.Get(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("Get(traversal) expected error")
	}
}

func TestStaticSource(t *testing.T) {
	t.Parallel()

	src := StaticSource{"a": "1"}
	if got, err := src.Get(context.Background(), "a"); err != nil || got != "1" {
		t.Fatalf("Get(a) = %q, %v", got, err)
	}
	if _, err := src.Get(context.Background(), "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(b) error = %v, want ErrNotFound", err)
	}
}
