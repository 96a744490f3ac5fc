package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != "5175" || cfg.CookieName != "hangman_token" || cfg.ProfileBackend != BackendSQLite {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LobbyConnectDelay != time.Second {
		t.Errorf("expected 1s connect delay, got %s", cfg.LobbyConnectDelay)
	}
	if cfg.TokenTTL() != 14*24*time.Hour {
		t.Errorf("unexpected token ttl %s", cfg.TokenTTL())
	}
}

func TestFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	body := `{"port":"9000","daily_salt":"from-file","lobby_demo_rooms":true}`
	if err := os.WriteFile(filepath.Join(dir, "app_config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("LOBBY_CONNECT_DELAY", "250ms")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected env to win, got port %s", cfg.Port)
	}
	if cfg.DailySalt != "from-file" || !cfg.LobbyDemoRooms {
		t.Errorf("expected file values, got %+v", cfg)
	}
	if cfg.LobbyConnectDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.LobbyConnectDelay)
	}
	if cfg.Addr() != ":9100" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
}

func TestMissingFileIsFine(t *testing.T) {
	if _, err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load without a config file: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("PROFILE_BACKEND", "dynamo")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected dynamo without a table to be rejected")
	}
	t.Setenv("DYNAMO_TABLE", "hangman")
	cfg, err := Load(t.TempDir())
	if err != nil || cfg.ProfileBackend != BackendDynamo {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}

	t.Setenv("PROFILE_BACKEND", "postgres")
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("expected unknown backend to be rejected")
	}
}

func TestInsecureSecret(t *testing.T) {
	cfg := Default()
	if cfg.InsecureSecret() {
		t.Errorf("development default should not be flagged")
	}
	cfg.Production = true
	if !cfg.InsecureSecret() {
		t.Errorf("expected default secret in production to be flagged")
	}
}
