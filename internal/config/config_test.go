package config

import (
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"STOCKFISH_PATH", "ENGINE_PRESET", "CHESS_POLYGLOT_BOOK_PATH", "CHESS_OPENING_CATALOG_PATH",
	"MESSAGES_DIR", "ONLINE_BASE_URL", "ONLINE_TOKEN", "ONLINE_STREAM_TRANSPORT", "ONLINE_WS_URL",
	"ONLINE_MATCH_TIMEOUT", "ONLINE_RETRIES", "AI_MOVE_DELAY_MS", "TICK_HZ", "ARCHIVE_BACKEND", "REDIS_URL",
	"DATABASE_URL", "SQLITE_PATH",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePreset != "level3" {
		t.Fatalf("preset = %q", cfg.EnginePreset)
	}
	if cfg.OnlineBaseURL != "https://lichess.org" || cfg.OnlineTransport != "http" {
		t.Fatalf("online defaults: %q %q", cfg.OnlineBaseURL, cfg.OnlineTransport)
	}
	if cfg.MatchTimeout() != time.Minute || cfg.AIMoveDelay() != time.Second {
		t.Fatalf("durations: %v %v", cfg.MatchTimeout(), cfg.AIMoveDelay())
	}
	if cfg.OnlineRetries != 3 {
		t.Fatalf("retries = %d", cfg.OnlineRetries)
	}
	if cfg.TickHz != 60 || cfg.TickInterval() != time.Second/60 {
		t.Fatalf("tick: %d %v", cfg.TickHz, cfg.TickInterval())
	}
	if cfg.ArchiveBackend != ArchiveSQLite || cfg.SQLitePath == "" {
		t.Fatalf("archive defaults: %q %q", cfg.ArchiveBackend, cfg.SQLitePath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENGINE_PRESET", "Level7")
	t.Setenv("ONLINE_BASE_URL", "http://localhost:9663/")
	t.Setenv("ONLINE_STREAM_TRANSPORT", "WS")
	t.Setenv("ONLINE_MATCH_TIMEOUT", "15")
	t.Setenv("ONLINE_RETRIES", "1")
	t.Setenv("AI_MOVE_DELAY_MS", "0")
	t.Setenv("TICK_HZ", "30")
	t.Setenv("ARCHIVE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnginePreset != "level7" || cfg.OnlineTransport != "ws" {
		t.Fatalf("enums not normalised: %q %q", cfg.EnginePreset, cfg.OnlineTransport)
	}
	if cfg.OnlineBaseURL != "http://localhost:9663" {
		t.Fatalf("base url = %q", cfg.OnlineBaseURL)
	}
	if cfg.MatchTimeout() != 15*time.Second || cfg.AIMoveDelay() != 0 || cfg.TickHz != 30 {
		t.Fatalf("numbers: %v %v %d", cfg.MatchTimeout(), cfg.AIMoveDelay(), cfg.TickHz)
	}
	if cfg.OnlineRetries != 1 {
		t.Fatalf("retries = %d", cfg.OnlineRetries)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"ENGINE_PRESET":           {"ENGINE_PRESET": "level99"},
		"ONLINE_STREAM_TRANSPORT": {"ONLINE_STREAM_TRANSPORT": "grpc"},
		"ARCHIVE_BACKEND":         {"ARCHIVE_BACKEND": "mongo"},
		"REDIS_URL":               {"ARCHIVE_BACKEND": "redis"},
		"DATABASE_URL":            {"ARCHIVE_BACKEND": "postgres"},
		"TICK_HZ":                 {"TICK_HZ": "0"},
		"ONLINE_MATCH_TIMEOUT":    {"ONLINE_MATCH_TIMEOUT": "soon"},
		"AI_MOVE_DELAY_MS":        {"AI_MOVE_DELAY_MS": "-5"},
		"ONLINE_RETRIES":          {"ONLINE_RETRIES": "0"},
	}
	for want, env := range cases {
		t.Run(want, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), want) {
				t.Fatalf("error %q does not mention %s", err, want)
			}
		})
	}
}
