package online

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/park285/cheese-desk/internal/chess"
)

func TestIsTerminalStatus(t *testing.T) {
	for _, s := range []string{"mate", "resign", "stalemate", "draw", "outoftime", "aborted", "timeout", "nostart", "cheat", "variantend", " Mate "} {
		assert.True(t, IsTerminalStatus(s), s)
	}
	for _, s := range []string{"", "started", "created"} {
		assert.False(t, IsTerminalStatus(s), s)
	}
}

func TestResultFor(t *testing.T) {
	assert.Equal(t, "1-0", ResultFor("mate", "white"))
	assert.Equal(t, "0-1", ResultFor("outoftime", "black"))
	assert.Equal(t, "1/2-1/2", ResultFor("stalemate", ""))
	assert.Equal(t, "1/2-1/2", ResultFor("draw", ""))
	assert.Equal(t, "*", ResultFor("aborted", ""))
}

func TestParseMoves(t *testing.T) {
	assert.Nil(t, ParseMoves("   "))
	assert.Equal(t, []string{"e2e4", "e7e5"}, ParseMoves(" e2e4  e7e5 "))
}

func TestDecodeGameEvent(t *testing.T) {
	_, ev, ok := decodeGameEvent([]byte(`{"type":"gameState","moves":"e2e4 e7e5","status":"started"}`))
	assert.True(t, ok)
	assert.Equal(t, StateEvent{Moves: []string{"e2e4", "e7e5"}, Status: "started"}, ev)

	_, _, ok = decodeGameEvent([]byte(`{"type":"chatLine"}`))
	assert.False(t, ok)
	_, _, ok = decodeGameEvent([]byte(`not json`))
	assert.False(t, ok)
}

func TestColorForAccount(t *testing.T) {
	g, _, _ := decodeGameEvent([]byte(`{"type":"gameFull","white":{"id":"alice","name":"Alice"},"black":{"id":"zed","name":"Zed"}}`))
	assert.Equal(t, chess.White, colorForAccount(g, "ALICE"))
	assert.Equal(t, chess.Black, colorForAccount(g, "zed"))
	assert.Equal(t, chess.Black, colorForAccount(g, ""))
}

func TestAccountEvent(t *testing.T) {
	ev, ok := decodeAccountEvent([]byte(`{"type":"gameStart","game":{"id":"g1","color":"White"}}`))
	assert.True(t, ok)
	assert.Equal(t, "g1", ev.gameID())
	assert.Equal(t, chess.White, ev.color())

	_, ok = decodeAccountEvent([]byte(`{}`))
	assert.False(t, ok)
}
