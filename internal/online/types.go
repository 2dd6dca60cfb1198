package online

import (
	"errors"
	"strings"

	"github.com/park285/cheese-desk/internal/chess"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrAlreadyMatching = errors.New("already matching")
	ErrNoGame          = errors.New("no active game")
)

// InboundEvent is produced by stream goroutines and consumed by the session loop.
type InboundEvent interface {
	inbound()
}

// FullEvent carries the complete game state sent when a stream opens.
type FullEvent struct {
	Moves []string
	White string
	Black string
}

// StateEvent carries the move list after each change plus the game status.
type StateEvent struct {
	Moves  []string
	Status string
	Winner string
}

// ErrorEvent reports a transport failure, or a rejected move when Rollback is set.
type ErrorEvent struct {
	Message  string
	Rollback bool
}

func (FullEvent) inbound()  {}
func (StateEvent) inbound() {}
func (ErrorEvent) inbound() {}

// NetworkSession is a value snapshot of the bridge's connection state.
type NetworkSession struct {
	Connected bool
	Account   string
	GameID    string
	Color     chess.Color
	Matching  bool
}

func (s NetworkSession) InGame() bool { return s.GameID != "" }

// MatchResult is published once per matchmaking or challenge attempt.
type MatchResult struct {
	OK      bool
	GameID  string
	Color   chess.Color
	Message string
}

type ChallengeStatus string

const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeAccepted ChallengeStatus = "accepted"
	ChallengeDeclined ChallengeStatus = "declined"
)

type Challenge struct {
	ID         string
	Challenger string
	Minutes    int
	Increment  int
	Status     ChallengeStatus
}

var terminalStatuses = map[string]bool{
	"mate":       true,
	"resign":     true,
	"stalemate":  true,
	"draw":       true,
	"outoftime":  true,
	"aborted":    true,
	"timeout":    true,
	"nostart":    true,
	"cheat":      true,
	"variantend": true,
}

// IsTerminalStatus reports whether a game status ends the game.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// ResultFor maps a terminal status and winner color to a PGN result token.
func ResultFor(status, winner string) string {
	switch strings.ToLower(winner) {
	case "white":
		return "1-0"
	case "black":
		return "0-1"
	}
	switch strings.ToLower(status) {
	case "draw", "stalemate":
		return "1/2-1/2"
	}
	return "*"
}

// ParseMoves splits the space-separated move list used on the wire.
func ParseMoves(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
