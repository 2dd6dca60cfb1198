package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS session_games (
		game_id      UUID PRIMARY KEY,
		kind         TEXT NOT NULL,
		white_name   TEXT NOT NULL,
		black_name   TEXT NOT NULL,
		moves_uci    JSONB NOT NULL,
		pgn          TEXT NOT NULL,
		result       TEXT NOT NULL,
		termination  TEXT NOT NULL,
		time_control TEXT NOT NULL,
		started_at   TIMESTAMPTZ NOT NULL,
		ended_at     TIMESTAMPTZ NOT NULL,
		duration_ms  BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_session_games_ended ON session_games(ended_at DESC);`)
	return err
}

// Save inserts rec. An existing game_id yields ErrDuplicateGame.
func (s *PostgresStore) Save(ctx context.Context, rec GameRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	movesRaw, err := json.Marshal(nonNil(rec.MovesUCI))
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
	INSERT INTO session_games (
		game_id, kind, white_name, black_name, moves_uci, pgn,
		result, termination, time_control, started_at, ended_at, duration_ms
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	ON CONFLICT (game_id) DO NOTHING`,
		rec.ID, rec.Kind, rec.White, rec.Black, string(movesRaw), BuildPGN(rec),
		rec.Result, rec.Termination, rec.TimeControl,
		rec.StartedAt, rec.EndedAt, rec.Duration().Milliseconds(),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateGame
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT game_id, kind, white_name, black_name, moves_uci, result, termination,
	       time_control, started_at, ended_at
	FROM session_games ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var rec GameRecord
		var moves []byte
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.White, &rec.Black, &moves, &rec.Result,
			&rec.Termination, &rec.TimeControl, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(moves, &rec.MovesUCI); err != nil {
			return nil, fmt.Errorf("decode moves for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nonNil(moves []string) []string {
	if moves == nil {
		return []string{}
	}
	return moves
}
