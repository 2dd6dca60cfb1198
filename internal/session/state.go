package session

import (
	"fmt"
	"strings"

	"github.com/park285/cheese-desk/internal/chess"
)

// Mode is the screen the session is on.
type Mode int

const (
	ModeMenu Mode = iota
	ModeTimeSelect
	ModeSelectSide
	ModeOpeningMenu
	ModePlaying
	ModeLearning
	ModePromoting
	ModeOnlineMenu
	ModeChallenges
	ModeOnline
)

var modeNames = [...]string{
	ModeMenu:        "menu",
	ModeTimeSelect:  "time_select",
	ModeSelectSide:  "select_side",
	ModeOpeningMenu: "opening_menu",
	ModePlaying:     "playing",
	ModeLearning:    "learning",
	ModePromoting:   "promoting",
	ModeOnlineMenu:  "online_menu",
	ModeChallenges:  "challenges",
	ModeOnline:      "online",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// boardMode reports whether moves can be entered in m.
func (m Mode) boardMode() bool {
	return m == ModePlaying || m == ModeLearning || m == ModeOnline
}

// onlineBoard covers the online game and a promotion choice made during it.
func (m Mode) onlineBoard() bool {
	return m == ModeOnline || m == ModePromoting
}

// Kind is the game type picked from the main menu.
type Kind int

const (
	KindNone Kind = iota
	KindPvP
	KindAI
	KindLearning
	KindOnline
)

func (k Kind) String() string {
	switch k {
	case KindPvP:
		return "pvp"
	case KindAI:
		return "ai"
	case KindLearning:
		return "learning"
	case KindOnline:
		return "online"
	default:
		return "none"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pvp", "local":
		return KindPvP, nil
	case "ai", "engine", "computer":
		return KindAI, nil
	case "learning", "learn", "openings":
		return KindLearning, nil
	case "online", "net":
		return KindOnline, nil
	default:
		return KindNone, fmt.Errorf("unknown game kind %q", s)
	}
}

// PendingPromotion is a pawn move waiting for a piece choice.
type PendingPromotion struct {
	From   chess.Square
	To     chess.Square
	Return Mode
}

// State is the loop-owned session record.
type State struct {
	Mode        Mode
	Kind        Kind
	PlayerColor chess.Color
	Selected    chess.Square
	Pending     *PendingPromotion
	Profile     TimeControlProfile
	Status      string
	LastMove    string
	GameOver    bool
	Result      string
}

func newState() State {
	return State{Mode: ModeMenu, Selected: chess.NoSquare}
}

func (s State) HasSelection() bool { return s.Selected != chess.NoSquare }
