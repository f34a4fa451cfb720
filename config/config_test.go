package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

// unsetenv clears keys for the duration of the test
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, "DEEPSEEK_API_KEY", "DB_PATH", "GAME_SEED", "DEBUG")
	t.Setenv("BOT_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BotToken != "token" {
		t.Fatalf("expected token, got %q", cfg.BotToken)
	}
	if cfg.DatabasePath != "./data/mathdungeon.db" {
		t.Fatalf("unexpected default database path %q", cfg.DatabasePath)
	}
	if cfg.Seed != 0 || cfg.ExplanationsEnabled() {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	chdirTemp(t)
	unsetenv(t, "BOT_TOKEN")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestLoadInvalidSeed(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GAME_SEED", "not-a-number")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	unsetenv(t, "BOT_TOKEN", "GAME_SEED")
	content := "BOT_TOKEN=from-file\nGAME_SEED=42\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BotToken != "from-file" || cfg.Seed != 42 {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}
