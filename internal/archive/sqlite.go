package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the local archive for a desktop session.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("SQLITE_PATH is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS games (
		id           TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		white_name   TEXT NOT NULL,
		black_name   TEXT NOT NULL,
		moves_uci    TEXT NOT NULL,
		pgn          TEXT NOT NULL,
		result       TEXT NOT NULL,
		termination  TEXT NOT NULL,
		time_control TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		ended_at     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_games_ended ON games(ended_at);`)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, rec GameRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	movesRaw, err := json.Marshal(nonNil(rec.MovesUCI))
	if err != nil {
		return err
	}
	var affected int64
	err = retryOnContention(func() error {
		res, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, kind, white_name, black_name, moves_uci, pgn,
			result, termination, time_control, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
			rec.ID, rec.Kind, rec.White, rec.Black, string(movesRaw), BuildPGN(rec),
			rec.Result, rec.Termination, rec.TimeControl,
			formatTime(rec.StartedAt), formatTime(rec.EndedAt),
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDuplicateGame
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, kind, white_name, black_name, moves_uci, result, termination,
	       time_control, started_at, ended_at
	FROM games ORDER BY ended_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var rec GameRecord
		var moves, started, ended string
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.White, &rec.Black, &moves, &rec.Result,
			&rec.Termination, &rec.TimeControl, &started, &ended); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(moves), &rec.MovesUCI); err != nil {
			return nil, fmt.Errorf("decode moves for %s: %w", rec.ID, err)
		}
		rec.StartedAt = parseTime(started)
		rec.EndedAt = parseTime(ended)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PGN returns the stored PGN text for id.
func (s *SQLiteStore) PGN(ctx context.Context, id string) (string, bool, error) {
	var pgn string
	err := s.db.QueryRowContext(ctx, `SELECT pgn FROM games WHERE id = ?`, id).Scan(&pgn)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pgn, true, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Fixed-width UTC so lexical order matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(sqliteTimeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetryConfig = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

func retryOnContention(fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= defaultRetryConfig.maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < defaultRetryConfig.maxRetries {
			time.Sleep(sqliteBackoff(attempt))
		}
	}
	return lastErr
}

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "IOERR_SHORT_READ", "database is locked", "database table is locked"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func sqliteBackoff(attempt int) time.Duration {
	cfg := defaultRetryConfig
	delay := cfg.baseDelay << uint(attempt)
	if delay > cfg.maxDelay {
		delay = cfg.maxDelay
	}
	return delay + time.Duration(rand.Int63n(int64(cfg.baseDelay)))
}
