package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/cheese-desk/internal/chess"
)

const (
	ArchiveNone     = "none"
	ArchiveMemory   = "memory"
	ArchiveRedis    = "redis"
	ArchivePostgres = "postgres"
	ArchiveSQLite   = "sqlite"
)

type AppConfig struct {
	StockfishPath      string
	EnginePreset       string
	PolyglotBookPath   string
	OpeningCatalogPath string
	MessagesDir        string

	OnlineBaseURL      string
	OnlineToken        string
	OnlineTransport    string
	OnlineWSURL        string
	OnlineMatchTimeout int // seconds
	OnlineRetries      int

	AIMoveDelayMs int
	TickHz        int

	ArchiveBackend string
	RedisURL       string
	DatabaseURL    string
	SQLitePath     string
}

func (c *AppConfig) MatchTimeout() time.Duration {
	return time.Duration(c.OnlineMatchTimeout) * time.Second
}

func (c *AppConfig) AIMoveDelay() time.Duration {
	return time.Duration(c.AIMoveDelayMs) * time.Millisecond
}

// TickInterval is the loop period derived from TICK_HZ.
func (c *AppConfig) TickInterval() time.Duration {
	if c.TickHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickHz)
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		EnginePreset:       chess.DefaultPreset,
		OnlineBaseURL:      "https://lichess.org",
		OnlineTransport:    "http",
		OnlineMatchTimeout: 60,
		OnlineRetries:      3,
		AIMoveDelayMs:      1000,
		TickHz:             60,
		ArchiveBackend:     ArchiveSQLite,
		SQLitePath:         "data/games.db",
	}

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	if v := strings.TrimSpace(os.Getenv("ENGINE_PRESET")); v != "" {
		cfg.EnginePreset = strings.ToLower(v)
	}
	cfg.PolyglotBookPath = strings.TrimSpace(os.Getenv("CHESS_POLYGLOT_BOOK_PATH"))
	cfg.OpeningCatalogPath = strings.TrimSpace(os.Getenv("CHESS_OPENING_CATALOG_PATH"))
	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))

	if v := strings.TrimSpace(os.Getenv("ONLINE_BASE_URL")); v != "" {
		cfg.OnlineBaseURL = strings.TrimRight(v, "/")
	}
	cfg.OnlineToken = strings.TrimSpace(os.Getenv("ONLINE_TOKEN"))
	if v := strings.TrimSpace(os.Getenv("ONLINE_STREAM_TRANSPORT")); v != "" {
		cfg.OnlineTransport = strings.ToLower(v)
	}
	cfg.OnlineWSURL = strings.TrimSpace(os.Getenv("ONLINE_WS_URL"))

	var err error
	if cfg.OnlineMatchTimeout, err = positiveInt("ONLINE_MATCH_TIMEOUT", cfg.OnlineMatchTimeout); err != nil {
		return nil, err
	}
	if cfg.OnlineRetries, err = positiveInt("ONLINE_RETRIES", cfg.OnlineRetries); err != nil {
		return nil, err
	}
	// zero is allowed: the engine replies on the next tick
	if v := strings.TrimSpace(os.Getenv("AI_MOVE_DELAY_MS")); v != "" {
		n, perr := strconv.Atoi(v)
		if perr != nil || n < 0 {
			return nil, fmt.Errorf("AI_MOVE_DELAY_MS: invalid value %q", v)
		}
		cfg.AIMoveDelayMs = n
	}
	if cfg.TickHz, err = positiveInt("TICK_HZ", cfg.TickHz); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv("ARCHIVE_BACKEND")); v != "" {
		cfg.ArchiveBackend = strings.ToLower(v)
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if v := strings.TrimSpace(os.Getenv("SQLITE_PATH")); v != "" {
		cfg.SQLitePath = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if _, err := chess.GetPreset(c.EnginePreset); err != nil {
		return fmt.Errorf("ENGINE_PRESET: %w", err)
	}
	switch c.OnlineTransport {
	case "http", "ws":
	default:
		return fmt.Errorf("ONLINE_STREAM_TRANSPORT must be http or ws, got %q", c.OnlineTransport)
	}
	switch c.ArchiveBackend {
	case ArchiveNone, ArchiveMemory, ArchiveSQLite:
	case ArchiveRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for ARCHIVE_BACKEND=redis")
		}
	case ArchivePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for ARCHIVE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("ARCHIVE_BACKEND must be one of none, memory, redis, postgres, sqlite; got %q", c.ArchiveBackend)
	}
	return nil
}

func positiveInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid value %q", key, v)
	}
	return n, nil
}
