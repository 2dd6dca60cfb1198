package archive

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDuplicateGame = errors.New("game already archived")
	ErrInvalidRecord = errors.New("invalid game record")
)

// GameRecord is one finished game.
type GameRecord struct {
	ID          string
	Kind        string
	White       string
	Black       string
	MovesUCI    []string
	Result      string
	Termination string
	TimeControl string
	StartedAt   time.Time
	EndedAt     time.Time
}

func NewID() string { return uuid.NewString() }

func (r GameRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

func (r GameRecord) validate() error {
	if _, err := uuid.Parse(r.ID); err != nil {
		return errors.Join(ErrInvalidRecord, err)
	}
	switch strings.TrimSpace(r.Result) {
	case "1-0", "0-1", "1/2-1/2", "*":
	default:
		return errors.Join(ErrInvalidRecord, errors.New("result must be a PGN result token"))
	}
	return nil
}

// Store persists game records. Recent returns newest first.
type Store interface {
	Save(ctx context.Context, rec GameRecord) error
	Recent(ctx context.Context, limit int) ([]GameRecord, error)
	Close() error
}
