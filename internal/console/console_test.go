package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/session"
	"github.com/park285/cheese-desk/pkg/sessiondto"
)

func square(t *testing.T, s string) chess.Square {
	t.Helper()
	sq, err := chess.ParseSquare(s)
	require.NoError(t, err)
	return sq
}

func TestParse_Events(t *testing.T) {
	blitz, ok := session.FindTimeControl("Blitz 5+2")
	require.True(t, ok)

	cases := []struct {
		line string
		want []session.Event
	}{
		{"pvp", []session.Event{session.SelectMode{Kind: session.KindPvP}}},
		{"MODE engine", []session.Event{session.SelectMode{Kind: session.KindAI}}},
		{"time blitz 5+2", []session.Event{session.ChooseTimeControl{Profile: blitz}}},
		{"tc 5", []session.Event{session.ChooseTimeControl{Profile: blitz}}},
		{"black", []session.Event{session.ChooseSide{Color: chess.Black}}},
		{"side w", []session.Event{session.ChooseSide{Color: chess.White}}},
		{"opening Italian Game", []session.Event{session.ChooseOpening{Name: "Italian Game"}}},
		{"e2", []session.Event{session.ClickSquare{Square: square(t, "e2")}}},
		{"click h8", []session.Event{session.ClickSquare{Square: square(t, "h8")}}},
		{"e2e4", []session.Event{session.AttemptMove{From: square(t, "e2"), To: square(t, "e4")}}},
		{"move e7e8q", []session.Event{
			session.AttemptMove{From: square(t, "e7"), To: square(t, "e8")},
			session.ChoosePromotion{Piece: chess.Queen},
		}},
		{"promote n", []session.Event{session.ChoosePromotion{Piece: chess.Knight}}},
		{"rook", []session.Event{session.ChoosePromotion{Piece: chess.Rook}}},
		{"cancel", []session.Event{session.CancelPromotion{}}},
		{"resign", []session.Event{session.Resign{}}},
		{"back", []session.Event{session.Back{}}},
		{"menu", []session.Event{session.Reset{}}},
		{"connect lip_abc", []session.Event{session.Connect{Token: "lip_abc"}}},
		{"seek", []session.Event{session.FindOpponent{}}},
		{"challenge @zed 5+2", []session.Event{session.ChallengePlayer{Name: "zed", Profile: blitz}}},
		{"stop", []session.Event{session.CancelMatch{}}},
		{"challenges", []session.Event{session.OpenChallenges{}}},
		{"refresh", []session.Event{session.RefreshChallenges{}}},
		{"accept c1", []session.Event{session.AcceptChallenge{ID: "c1"}}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			cmd, err := Parse(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cmd.Events)
		})
	}
}

func TestParse_Flags(t *testing.T) {
	cmd, err := Parse("  help ")
	require.NoError(t, err)
	assert.True(t, cmd.Help)

	cmd, err = Parse("quit")
	require.NoError(t, err)
	assert.True(t, cmd.Quit)

	cmd, err = Parse("show")
	require.NoError(t, err)
	assert.True(t, cmd.Show)
	assert.Empty(t, cmd.Events)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	for _, line := range []string{
		"mode",
		"mode chess960",
		"time",
		"time 3 minutes",
		"side green",
		"click z9",
		"promote king",
		"connect",
		"accept",
		"e9e4",
		"dance",
	} {
		_, err := Parse(line)
		assert.Error(t, err, line)
	}
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(sessiondto.Snapshot{
		Mode:     "playing",
		Kind:     "ai",
		LastMove: "e2e4",
		Status:   "Waiting for the opponent",
		Clock: sessiondto.ClockView{
			Enabled: true,
			White:   4*time.Minute + 58*time.Second,
			Black:   9500 * time.Millisecond,
		},
		AIThinking: true,
	})
	assert.Equal(t, "[playing] ai last=e2e4 W 4:58 | B 0:09.5 (thinking) Waiting for the opponent", line)

	assert.Equal(t, "[menu] Choose a mode", StatusLine(sessiondto.Snapshot{Mode: "menu", Kind: "none", Status: "Choose a mode"}))
}

func TestDetails(t *testing.T) {
	out := Details(sessiondto.Snapshot{
		FEN:         "fen",
		Turn:        "black",
		Kind:        "online",
		PlayerColor: "white",
		MovesUCI:    []string{"e2e4"},
		Online: &sessiondto.OnlineView{
			Connected: true,
			Account:   "alice",
			GameID:    "g1",
			Color:     "white",
			Challenges: []sessiondto.ChallengeView{
				{ID: "c1", Challenger: "zed", Minutes: 3, Increment: 2, Status: "pending"},
			},
		},
		GameOver: true,
		Result:   "1-0",
	})
	for _, want := range []string{
		"Turn: black (you: white)",
		"Moves: e2e4",
		"game=g1 as white",
		"challenge c1 from zed 3+2 (pending)",
		"Result: 1-0",
	} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, HelpText(), "connect <token>")
}
