package session

import "github.com/park285/cheese-desk/internal/chess"

// Event is one discrete input to the controller.
type Event interface {
	kind() eventKind
}

type eventKind int

const (
	evSelectMode eventKind = iota
	evChooseTimeControl
	evChooseSide
	evChooseOpening
	evClickSquare
	evAttemptMove
	evChoosePromotion
	evCancelPromotion
	evReset
	evBack
	evResign
	evConnect
	evFindOpponent
	evChallengePlayer
	evCancelMatch
	evOpenChallenges
	evRefreshChallenges
	evAcceptChallenge
)

var eventNames = [...]string{
	evSelectMode:        "select_mode",
	evChooseTimeControl: "choose_time_control",
	evChooseSide:        "choose_side",
	evChooseOpening:     "choose_opening",
	evClickSquare:       "click_square",
	evAttemptMove:       "attempt_move",
	evChoosePromotion:   "choose_promotion",
	evCancelPromotion:   "cancel_promotion",
	evReset:             "reset",
	evBack:              "back",
	evResign:            "resign",
	evConnect:           "connect",
	evFindOpponent:      "find_opponent",
	evChallengePlayer:   "challenge_player",
	evCancelMatch:       "cancel_match",
	evOpenChallenges:    "open_challenges",
	evRefreshChallenges: "refresh_challenges",
	evAcceptChallenge:   "accept_challenge",
}

func (k eventKind) String() string { return eventNames[k] }

type (
	SelectMode        struct{ Kind Kind }
	ChooseTimeControl struct{ Profile TimeControlProfile }
	ChooseSide        struct{ Color chess.Color }
	ChooseOpening     struct{ Name string }
	ClickSquare       struct{ Square chess.Square }
	AttemptMove       struct{ From, To chess.Square }
	ChoosePromotion   struct{ Piece chess.PieceKind }
	CancelPromotion   struct{}
	Reset             struct{}
	Back              struct{}
	Resign            struct{}
	Connect           struct{ Token string }
	FindOpponent      struct{ Profile TimeControlProfile }
	ChallengePlayer   struct {
		Name    string
		Profile TimeControlProfile
	}
	CancelMatch       struct{}
	OpenChallenges    struct{}
	RefreshChallenges struct{}
	AcceptChallenge   struct{ ID string }
)

func (SelectMode) kind() eventKind        { return evSelectMode }
func (ChooseTimeControl) kind() eventKind { return evChooseTimeControl }
func (ChooseSide) kind() eventKind        { return evChooseSide }
func (ChooseOpening) kind() eventKind     { return evChooseOpening }
func (ClickSquare) kind() eventKind       { return evClickSquare }
func (AttemptMove) kind() eventKind       { return evAttemptMove }
func (ChoosePromotion) kind() eventKind   { return evChoosePromotion }
func (CancelPromotion) kind() eventKind   { return evCancelPromotion }
func (Reset) kind() eventKind             { return evReset }
func (Back) kind() eventKind              { return evBack }
func (Resign) kind() eventKind            { return evResign }
func (Connect) kind() eventKind           { return evConnect }
func (FindOpponent) kind() eventKind      { return evFindOpponent }
func (ChallengePlayer) kind() eventKind   { return evChallengePlayer }
func (CancelMatch) kind() eventKind       { return evCancelMatch }
func (OpenChallenges) kind() eventKind    { return evOpenChallenges }
func (RefreshChallenges) kind() eventKind { return evRefreshChallenges }
func (AcceptChallenge) kind() eventKind   { return evAcceptChallenge }

type eventSet map[eventKind]bool

func allow(kinds ...eventKind) eventSet {
	set := make(eventSet, len(kinds)+2)
	for _, k := range kinds {
		set[k] = true
	}
	set[evReset] = true
	set[evBack] = true
	return set
}

// transitions lists the events each mode accepts. Reset and Back are accepted everywhere.
var transitions = map[Mode]eventSet{
	ModeMenu:        allow(evSelectMode),
	ModeTimeSelect:  allow(evChooseTimeControl),
	ModeSelectSide:  allow(evChooseSide),
	ModeOpeningMenu: allow(evChooseOpening),
	ModePlaying:     allow(evClickSquare, evAttemptMove, evResign),
	ModeLearning:    allow(evClickSquare, evAttemptMove),
	ModePromoting:   allow(evChoosePromotion, evCancelPromotion),
	ModeOnlineMenu:  allow(evConnect, evFindOpponent, evChallengePlayer, evCancelMatch, evOpenChallenges),
	ModeChallenges:  allow(evRefreshChallenges, evAcceptChallenge),
	ModeOnline:      allow(evClickSquare, evAttemptMove, evResign),
}

func accepts(m Mode, k eventKind) bool {
	return transitions[m][k]
}
