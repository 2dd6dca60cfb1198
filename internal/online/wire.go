package online

import (
	"encoding/json"
	"strings"

	"github.com/park285/cheese-desk/internal/chess"
)

// accountEvent is one document of the account event stream.
type accountEvent struct {
	Type string `json:"type"`
	Game struct {
		GameID string `json:"gameId"`
		ID     string `json:"id"`
		Color  string `json:"color"`
	} `json:"game"`
	Challenge struct {
		ID string `json:"id"`
	} `json:"challenge"`
}

func (e accountEvent) gameID() string {
	if e.Game.GameID != "" {
		return e.Game.GameID
	}
	return e.Game.ID
}

func (e accountEvent) color() chess.Color {
	if strings.EqualFold(e.Game.Color, "white") {
		return chess.White
	}
	return chess.Black
}

func decodeAccountEvent(raw []byte) (accountEvent, bool) {
	var ev accountEvent
	if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
		return accountEvent{}, false
	}
	return ev, true
}

type gamePlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type gameStateJSON struct {
	Type   string `json:"type"`
	Moves  string `json:"moves"`
	Status string `json:"status"`
	Winner string `json:"winner"`
}

// gameEvent is one document of a board game stream.
type gameEvent struct {
	Type   string        `json:"type"`
	White  gamePlayer    `json:"white"`
	Black  gamePlayer    `json:"black"`
	State  gameStateJSON `json:"state"`
	Moves  string        `json:"moves"`
	Status string        `json:"status"`
	Winner string        `json:"winner"`
}

// decodeGameEvent normalizes a stream document. ok is false for chat lines,
// unknown types and malformed input.
func decodeGameEvent(raw []byte) (gameEvent, InboundEvent, bool) {
	var ev gameEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return gameEvent{}, nil, false
	}
	switch ev.Type {
	case "gameFull":
		full := FullEvent{
			Moves: ParseMoves(ev.State.Moves),
			White: ev.White.ID,
			Black: ev.Black.ID,
		}
		return ev, full, true
	case "gameState":
		return ev, StateEvent{Moves: ParseMoves(ev.Moves), Status: ev.Status, Winner: ev.Winner}, true
	default:
		return ev, nil, false
	}
}

// colorForAccount picks the side whose player id matches account.
func colorForAccount(ev gameEvent, account string) chess.Color {
	if account != "" && strings.EqualFold(ev.White.ID, account) {
		return chess.White
	}
	if account != "" && strings.EqualFold(ev.White.Name, account) {
		return chess.White
	}
	return chess.Black
}
