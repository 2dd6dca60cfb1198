package session

import (
	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/pkg/sessiondto"
)

var pieceValue = map[chess.PieceKind]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

var startCount = map[chess.PieceKind]int{
	chess.Pawn:   8,
	chess.Knight: 2,
	chess.Bishop: 2,
	chess.Rook:   2,
	chess.Queen:  1,
}

var materialOrder = []chess.PieceKind{chess.Queen, chess.Rook, chess.Bishop, chess.Knight, chess.Pawn}

// Snapshot builds the per-frame view. It does not change session state
// apart from the hint and opening caches.
func (c *Controller) Snapshot() sessiondto.Snapshot {
	st := c.state
	clk := c.clock.State()
	snap := sessiondto.Snapshot{
		Mode:        st.Mode.String(),
		Kind:        st.Kind.String(),
		FEN:         c.pos.FEN(),
		Turn:        c.pos.Turn().String(),
		PlayerColor: st.PlayerColor.String(),
		LastMove:    st.LastMove,
		MovesUCI:    c.pos.Moves(),
		Status:      st.Status,
		GameOver:    st.GameOver,
		Result:      st.Result,
		AIThinking:  c.ai.Armed(),
		Clock: sessiondto.ClockView{
			Enabled:   clk.Enabled,
			Expired:   clk.Expired,
			White:     clk.White,
			Black:     clk.Black,
			Increment: clk.Increment,
		},
	}
	if clk.Expired {
		snap.Clock.Flagged = clk.Flagged.String()
	}
	if st.HasSelection() {
		snap.Selected = st.Selected.String()
	}
	if st.Pending != nil {
		snap.Pending = &sessiondto.PromotionView{From: st.Pending.From.String(), To: st.Pending.To.String()}
	}
	snap.Material, snap.Captured = material(c.pos)

	if st.Mode.boardMode() || st.Mode == ModePromoting {
		snap.Hints = c.hintMoves()
		snap.Opening = c.openingName()
	}
	if st.Kind == KindLearning {
		lv := &sessiondto.LearningView{Title: c.learning.Title, Step: c.learning.Step, Total: len(c.learning.Sequence)}
		if next, ok := c.learning.Next(); ok {
			lv.Next = next
		}
		snap.Learning = lv
	}
	if c.bridge != nil && st.Kind == KindOnline {
		ns := c.bridge.Session()
		ov := &sessiondto.OnlineView{
			Connected: ns.Connected,
			Account:   ns.Account,
			GameID:    ns.GameID,
			Matching:  ns.Matching,
		}
		if ns.InGame() {
			ov.Color = ns.Color.String()
		}
		for _, ch := range c.bridge.Challenges() {
			ov.Challenges = append(ov.Challenges, sessiondto.ChallengeView{
				ID:         ch.ID,
				Challenger: ch.Challenger,
				Minutes:    ch.Minutes,
				Increment:  ch.Increment,
				Status:     string(ch.Status),
			})
		}
		snap.Online = ov
	}

	switch st.Mode {
	case ModeTimeSelect, ModeOnlineMenu:
		for _, p := range timeControls {
			snap.TimeControls = append(snap.TimeControls, sessiondto.TimeControlView{Label: p.Label, Minutes: p.Minutes, Increment: p.IncrementSeconds})
		}
	case ModeOpeningMenu:
		if c.openings != nil {
			snap.Openings = c.openings.Names()
		}
	}
	return snap
}

// openingName looks the ECO name up once per position.
func (c *Controller) openingName() string {
	namer, ok := c.book.(openingNamer)
	if !ok {
		return ""
	}
	fen := c.pos.FEN()
	if fen == c.openingFEN {
		return c.opening
	}
	c.openingFEN, c.opening = fen, ""
	if code, title := namer.OpeningName(c.pos); title != "" {
		c.opening = code + " " + title
	}
	return c.opening
}

// hintMoves returns the scripted move while a learning line is running,
// book suggestions otherwise.
func (c *Controller) hintMoves() []string {
	if c.state.Kind == KindLearning {
		if next, ok := c.learning.Next(); ok {
			return []string{next}
		}
	}
	if c.state.GameOver {
		return nil
	}
	return append([]string(nil), c.bookMoves()...)
}

func material(pos chess.Position) (sessiondto.MaterialScore, sessiondto.CapturedPieces) {
	var score sessiondto.MaterialScore
	counts := map[chess.Color]map[chess.PieceKind]int{chess.White: {}, chess.Black: {}}
	for sq := chess.Square(0); sq < 64; sq++ {
		p, ok := pos.PieceAt(sq)
		if !ok {
			continue
		}
		counts[p.Color][p.Kind]++
		if p.Color == chess.White {
			score.White += pieceValue[p.Kind]
		} else {
			score.Black += pieceValue[p.Kind]
		}
	}

	var captured sessiondto.CapturedPieces
	for _, kind := range materialOrder {
		// promotions can push a count above the starting number
		for i := counts[chess.Black][kind]; i < startCount[kind]; i++ {
			captured.White = append(captured.White, kind.Letter()+pawnLetter(kind))
		}
		for i := counts[chess.White][kind]; i < startCount[kind]; i++ {
			captured.Black = append(captured.Black, kind.Letter()+pawnLetter(kind))
		}
	}
	return score, captured
}

func pawnLetter(k chess.PieceKind) string {
	if k == chess.Pawn {
		return "p"
	}
	return ""
}
