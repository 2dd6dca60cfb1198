package chess

import (
	"fmt"

	chesslib "github.com/corentings/chess/v2"
)

// StandardRules adapts corentings/chess to the session's rules interface.
type StandardRules struct{}

func NewStandardRules() StandardRules { return StandardRules{} }

type gamePosition struct {
	game  *chesslib.Game
	moves []string
}

func (p *gamePosition) Turn() Color {
	if p.game.Position().Turn() == chesslib.White {
		return White
	}
	return Black
}

func (p *gamePosition) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	libSq := chesslib.NewSquare(chesslib.File(sq.File()), chesslib.Rank(sq.Rank()))
	piece := p.game.Position().Board().Piece(libSq)
	if piece == chesslib.NoPiece {
		return Piece{}, false
	}
	out := Piece{Color: White, Kind: kindFrom(piece.Type())}
	if piece.Color() == chesslib.Black {
		out.Color = Black
	}
	return out, true
}

func (p *gamePosition) Moves() []string { return append([]string(nil), p.moves...) }

func (p *gamePosition) FEN() string { return p.game.FEN() }

func (StandardRules) Start() Position {
	return &gamePosition{game: chesslib.NewGame()}
}

// Replay builds a position by applying UCI moves from the initial position.
func (StandardRules) Replay(moves []string) (Position, error) {
	game, err := replay(moves)
	if err != nil {
		return nil, err
	}
	return &gamePosition{game: game, moves: append([]string(nil), moves...)}, nil
}

func (r StandardRules) LegalMoves(pos Position) []Move {
	gp, err := r.own(pos)
	if err != nil {
		return nil
	}
	valid := gp.game.ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, mv := range valid {
		parsed, err := ParseMove(mv.String())
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out
}

// Apply returns a new position; the input is left untouched.
func (r StandardRules) Apply(pos Position, mv Move) (Position, error) {
	gp, err := r.own(pos)
	if err != nil {
		return nil, err
	}
	next := gp.game.Clone()
	uci := mv.UCI()
	if err := next.PushNotationMove(uci, chesslib.UCINotation{}, nil); err != nil {
		return nil, fmt.Errorf("apply move %q: %w", uci, err)
	}
	moves := make([]string, 0, len(gp.moves)+1)
	moves = append(moves, gp.moves...)
	moves = append(moves, uci)
	return &gamePosition{game: next, moves: moves}, nil
}

func (r StandardRules) IsGameOver(pos Position) bool {
	gp, err := r.own(pos)
	if err != nil {
		return false
	}
	return gp.game.Outcome() != chesslib.NoOutcome
}

// Result renders the outcome as "1-0 (Checkmate)"; "*" while the game is running.
func (r StandardRules) Result(pos Position) string {
	gp, err := r.own(pos)
	if err != nil {
		return "*"
	}
	outcome := gp.game.Outcome()
	if outcome == chesslib.NoOutcome {
		return "*"
	}
	return fmt.Sprintf("%s (%s)", outcome.String(), gp.game.Method().String())
}

func (StandardRules) own(pos Position) (*gamePosition, error) {
	if gp, ok := pos.(*gamePosition); ok && gp != nil {
		return gp, nil
	}
	if pos == nil {
		return nil, fmt.Errorf("nil position")
	}
	game, err := replay(pos.Moves())
	if err != nil {
		return nil, err
	}
	return &gamePosition{game: game, moves: pos.Moves()}, nil
}

func replay(moves []string) (*chesslib.Game, error) {
	game := chesslib.NewGame()
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, chesslib.UCINotation{}, nil); err != nil {
			return nil, fmt.Errorf("apply move %q: %w", mv, err)
		}
	}
	return game, nil
}

func kindFrom(t chesslib.PieceType) PieceKind {
	switch t {
	case chesslib.Pawn:
		return Pawn
	case chesslib.Knight:
		return Knight
	case chesslib.Bishop:
		return Bishop
	case chesslib.Rook:
		return Rook
	case chesslib.Queen:
		return Queen
	case chesslib.King:
		return King
	default:
		return NoPieceKind
	}
}
