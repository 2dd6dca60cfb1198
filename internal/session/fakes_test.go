package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/park285/cheese-desk/internal/archive"
	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/online"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeEngine struct {
	startErr  error
	searchErr error
	script    []string
	starts    int
	searches  int
	positions [][]string
}

func (e *fakeEngine) Start(context.Context) error {
	e.starts++
	return e.startErr
}

func (e *fakeEngine) SetPosition(moves []string) {
	e.positions = append(e.positions, append([]string(nil), moves...))
}

// Search plays the next scripted move, or the first legal move once the script runs out.
func (e *fakeEngine) Search(ctx context.Context, budget time.Duration) (string, error) {
	e.searches++
	if e.searchErr != nil {
		return "", e.searchErr
	}
	if len(e.script) > 0 {
		mv := e.script[0]
		e.script = e.script[1:]
		return mv, nil
	}
	var moves []string
	if n := len(e.positions); n > 0 {
		moves = e.positions[n-1]
	}
	pos, err := chess.NewStandardRules().Replay(moves)
	if err != nil {
		return "", err
	}
	legal := chess.NewStandardRules().LegalMoves(pos)
	if len(legal) == 0 {
		return "", errors.New("no legal moves")
	}
	return legal[0].UCI(), nil
}

func (e *fakeEngine) Close() error { return nil }

// fakeBook keys suggestions by the space-joined move history.
type fakeBook map[string][]string

func (b fakeBook) Suggestions(pos chess.Position) []string {
	return b[strings.Join(pos.Moves(), " ")]
}

// namingBook also names openings and counts the lookups.
type namingBook struct {
	fakeBook
	names   map[string]string
	lookups int
}

func (b *namingBook) OpeningName(pos chess.Position) (string, string) {
	b.lookups++
	name, ok := b.names[strings.Join(pos.Moves(), " ")]
	if !ok {
		return "", ""
	}
	code, title, _ := strings.Cut(name, " ")
	return code, title
}

type fakeOpenings map[string][]string

func (o fakeOpenings) Names() []string {
	out := make([]string, 0, len(o))
	for name := range o {
		out = append(out, name)
	}
	return out
}

func (o fakeOpenings) Sequence(name string) ([]string, bool) {
	seq, ok := o[name]
	return append([]string(nil), seq...), ok
}

type fakeRecorder struct {
	records []archive.GameRecord
}

func (r *fakeRecorder) Record(rec archive.GameRecord) bool {
	r.records = append(r.records, rec)
	return true
}

type fakeBridge struct {
	session     online.NetworkSession
	results     []*online.MatchResult
	events      []online.InboundEvent
	challenges  []online.Challenge
	submitted   []string
	seeks       [][2]int
	accepted    []string
	disconnects int
	resigns     int
	cancels     int
	refreshes   int
}

func (b *fakeBridge) Connect(ctx context.Context, token string) (bool, string) {
	if token == "" {
		return false, "Token must not be empty"
	}
	b.session.Connected = true
	b.session.Account = "alice"
	return true, "Connected: alice"
}

func (b *fakeBridge) FindOpponent(minutes, increment int) (bool, string) {
	if !b.session.Connected {
		return false, "Not connected"
	}
	b.seeks = append(b.seeks, [2]int{minutes, increment})
	b.session.Matching = true
	return true, "Looking for an opponent..."
}

func (b *fakeBridge) Challenge(name string, minutes, increment int) (bool, string) {
	b.seeks = append(b.seeks, [2]int{minutes, increment})
	b.session.Matching = true
	return true, "Challenge sent to " + name + ", waiting..."
}

func (b *fakeBridge) CancelMatch() {
	b.cancels++
	b.session.Matching = false
}

func (b *fakeBridge) CheckStatus() (bool, *online.MatchResult) {
	if len(b.results) == 0 {
		return b.session.Matching, nil
	}
	r := b.results[0]
	b.results = b.results[1:]
	b.session.Matching = false
	if r.OK {
		b.session.GameID = r.GameID
		b.session.Color = r.Color
	}
	return false, r
}

func (b *fakeBridge) Accept(ctx context.Context, id string) (bool, string) {
	b.accepted = append(b.accepted, id)
	if id == "bad" {
		return false, "Failed to accept challenge"
	}
	b.session.GameID = id
	b.session.Color = chess.Black
	return true, "Game started! You play black"
}

func (b *fakeBridge) RefreshChallenges() { b.refreshes++ }

func (b *fakeBridge) Challenges() []online.Challenge { return b.challenges }

func (b *fakeBridge) SubmitMoveAsync(uci string) { b.submitted = append(b.submitted, uci) }

func (b *fakeBridge) Drain() (online.InboundEvent, bool) {
	if len(b.events) == 0 {
		return nil, false
	}
	ev := b.events[0]
	b.events = b.events[1:]
	return ev, true
}

func (b *fakeBridge) Resign() {
	b.resigns++
	b.session.GameID = ""
	b.session.Color = chess.White
}

func (b *fakeBridge) Disconnect() {
	b.disconnects++
	b.session = online.NetworkSession{}
}

func (b *fakeBridge) Session() online.NetworkSession { return b.session }

type harness struct {
	c        *Controller
	now      time.Time
	engine   *fakeEngine
	bridge   *fakeBridge
	recorder *fakeRecorder
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		now:      t0,
		engine:   &fakeEngine{},
		bridge:   &fakeBridge{},
		recorder: &fakeRecorder{},
	}
	base := []Option{
		WithClock(func() time.Time { return h.now }),
		WithEngine(h.engine),
		WithBridge(h.bridge),
		WithRecorder(h.recorder),
		WithAIDelay(time.Second),
		WithOpenings(fakeOpenings{"Open Game": {"e2e4", "e7e5"}}),
	}
	h.c = New(chess.NewStandardRules(), append(base, opts...)...)
	return h
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
	h.c.Update(h.now)
}

func (h *harness) startPvP(p TimeControlProfile) {
	h.c.Handle(SelectMode{Kind: KindPvP})
	h.c.Handle(ChooseTimeControl{Profile: p})
}

func mustMove(t *testing.T, uci string) chess.Move {
	t.Helper()
	mv, err := chess.ParseMove(uci)
	require.NoError(t, err)
	return mv
}

func (h *harness) play(t *testing.T, moves ...string) {
	t.Helper()
	for _, uci := range moves {
		mv := mustMove(t, uci)
		h.c.Handle(AttemptMove{From: mv.From, To: mv.To})
		if mv.Promotion != chess.NoPieceKind {
			h.c.Handle(ChoosePromotion{Piece: mv.Promotion})
		}
	}
}

func sq(t *testing.T, s string) chess.Square {
	t.Helper()
	v, err := chess.ParseSquare(s)
	require.NoError(t, err)
	return v
}

func replayFEN(t *testing.T, moves ...string) string {
	t.Helper()
	pos, err := chess.NewStandardRules().Replay(moves)
	require.NoError(t, err)
	return pos.FEN()
}

var noClock = TimeControlProfile{Label: "No clock"}
