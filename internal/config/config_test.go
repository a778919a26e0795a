package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idksan.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != DefaultAddress || cfg.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `{"server":{"address":":9090"},"bot":{"think_delay_ms":250}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("expected address override, got %s", cfg.ServerAddress)
	}
	if cfg.BotThinkDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms think delay, got %v", cfg.BotThinkDelay)
	}
	if cfg.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected default max players, got %d", cfg.MaxPlayers)
	}
	if cfg.RoomTTL != DefaultRoomTTL {
		t.Fatalf("expected default room ttl, got %v", cfg.RoomTTL)
	}
}

func TestLoad_RoomTTLOverride(t *testing.T) {
	path := writeConfig(t, `{"room":{"ttl_minutes":30}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RoomTTL != 30*time.Minute {
		t.Fatalf("expected 30m room ttl, got %v", cfg.RoomTTL)
	}
}

func TestLoad_RejectsBadPlayerBounds(t *testing.T) {
	path := writeConfig(t, `{"room":{"min_players":4,"max_players":3}}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for max_players < min_players")
	}
	path = writeConfig(t, `{"room":{"min_players":1}}`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for min_players < 2")
	}
}

func TestLoad_RejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"server":`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected a parse error")
	}
}
