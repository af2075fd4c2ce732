package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("GRIDSNAKE_TEST_STR", "value")
	if got := GetEnv("GRIDSNAKE_TEST_STR", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q, want value", got)
	}
	if got := GetEnv("GRIDSNAKE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnv unset = %q, want fallback", got)
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("GRIDSNAKE_TEST_INT", "42")
	t.Setenv("GRIDSNAKE_TEST_BAD", "forty")
	t.Setenv("GRIDSNAKE_TEST_DUR", "250ms")

	if got := GetEnvInt64("GRIDSNAKE_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt64 = %d, want 42", got)
	}
	if got := GetEnvInt64("GRIDSNAKE_TEST_BAD", 1); got != 1 {
		t.Errorf("GetEnvInt64 bad = %d, want fallback 1", got)
	}
	if got := GetEnvDuration("GRIDSNAKE_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, want 250ms", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("GRIDSNAKE_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRIDSNAKE_TEST_DOTENV", "")
	os.Unsetenv("GRIDSNAKE_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("GRIDSNAKE_TEST_DOTENV"); got != "from-file" {
		t.Errorf("GRIDSNAKE_TEST_DOTENV = %q, want from-file", got)
	}
}
