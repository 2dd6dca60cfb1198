package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func sampleRecord(ended time.Time) GameRecord {
	return GameRecord{
		ID:          NewID(),
		Kind:        "ai",
		White:       "You",
		Black:       "Engine (level3)",
		MovesUCI:    []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Result:      "0-1",
		Termination: "Checkmate",
		TimeControl: "5+2",
		StartedAt:   ended.Add(-3 * time.Minute),
		EndedAt:     ended,
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := sampleRecord(base)
	newer := sampleRecord(base.Add(time.Hour))
	if err := s.Save(ctx, older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := s.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}
	if err := s.Save(ctx, older); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("expected ErrDuplicateGame, got %v", err)
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if strings.Join(got[1].MovesUCI, " ") != "f2f3 e7e5 g2g4 d8h4" {
		t.Fatalf("moves not preserved: %v", got[1].MovesUCI)
	}
	if !got[1].EndedAt.Equal(older.EndedAt) {
		t.Fatalf("ended_at mismatch: %v vs %v", got[1].EndedAt, older.EndedAt)
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Recent(1): %v len=%d", err, len(limited))
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s, err := NewRedisStore(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestRedisStore_SkipsExpiredRecords(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	s, err := NewRedisStore(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	rec := sampleRecord(time.Now())
	if err := s.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	mr.FastForward(redisRecordTTL + time.Second)

	got, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired record to be skipped, got %d", len(got))
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := parseRedisURL("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if _, err := parseRedisURL("http://localhost"); err == nil {
		t.Fatalf("expected scheme error")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "archive.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)

	recs, _ := s.Recent(context.Background(), 1)
	pgn, ok, err := s.PGN(context.Background(), recs[0].ID)
	if err != nil || !ok {
		t.Fatalf("PGN: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(pgn, "1. f3 e5 2. g4 Qh4# 0-1") {
		t.Fatalf("unexpected pgn:\n%s", pgn)
	}
	if _, ok, _ := s.PGN(context.Background(), NewID()); ok {
		t.Fatalf("expected missing pgn")
	}
}

func TestSave_RejectsInvalidRecords(t *testing.T) {
	s := NewMemoryStore()
	rec := sampleRecord(time.Now())
	rec.ID = "not-a-uuid"
	if err := s.Save(context.Background(), rec); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for bad id, got %v", err)
	}
	rec = sampleRecord(time.Now())
	rec.Result = "white wins"
	if err := s.Save(context.Background(), rec); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for bad result, got %v", err)
	}
}

func TestBuildPGN(t *testing.T) {
	rec := GameRecord{
		ID:          NewID(),
		White:       `Al"ice`,
		Black:       "",
		MovesUCI:    []string{"e2e4", "e7e5", "g1f3"},
		Result:      "1-0",
		Termination: "Resign",
		TimeControl: "3+2",
		EndedAt:     time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	}
	pgn := BuildPGN(rec)
	for _, want := range []string{
		`[Date "2026.05.04"]`,
		`[White "Al'ice"]`,
		`[Black "-"]`,
		`[Result "1-0"]`,
		`[TimeControl "3+2"]`,
		`[Termination "resign"]`,
		"1. e4 e5 2. Nf3 1-0",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
}

func TestSANMoves_StopsAtIllegalMove(t *testing.T) {
	san, err := SANMoves([]string{"e2e4", "e2e4"})
	if err == nil {
		t.Fatalf("expected error for illegal move")
	}
	if len(san) != 1 || san[0] != "e4" {
		t.Fatalf("unexpected partial SAN: %v", san)
	}
}

func TestBuildPGN_OmitsIllegalTail(t *testing.T) {
	rec := GameRecord{
		MovesUCI: []string{"e2e4", "e7e5", "d1d8", "g1f3"},
		Result:   "*",
		EndedAt:  time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	}
	pgn := BuildPGN(rec)
	if !strings.Contains(pgn, "1. e4 e5 *") {
		t.Fatalf("pgn should stop before the illegal move:\n%s", pgn)
	}
	for _, bad := range []string{"Qd8", "Qxd8", "Nf3"} {
		if strings.Contains(pgn, bad) {
			t.Fatalf("pgn contains %q past the illegal move:\n%s", bad, pgn)
		}
	}
}

func TestRecorder_SavesInBackground(t *testing.T) {
	store := NewMemoryStore()
	r := NewRecorder(store, 4, nil)

	rec := sampleRecord(time.Now())
	rec.ID = ""
	if !r.Record(rec) {
		t.Fatalf("Record rejected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, _ := store.Recent(context.Background(), 10)
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("expected one saved record with generated id, got %+v", got)
	}
	if r.Record(sampleRecord(time.Now())) {
		t.Fatalf("Record after Close should be rejected")
	}
}

type blockingStore struct {
	Store
	release chan struct{}
}

func (b *blockingStore) Save(ctx context.Context, rec GameRecord) error {
	<-b.release
	return b.Store.Save(ctx, rec)
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	bs := &blockingStore{Store: NewMemoryStore(), release: make(chan struct{})}
	r := NewRecorder(bs, 1, nil)

	accepted := 0
	for i := 0; i < 5; i++ {
		if r.Record(sampleRecord(time.Now())) {
			accepted++
		}
	}
	// one in the worker, one buffered
	if accepted > 2 || accepted < 1 {
		t.Fatalf("expected at most 2 accepted records, got %d", accepted)
	}
	close(bs.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
