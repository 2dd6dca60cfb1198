package chess

import (
	"fmt"
	"strings"
)

// Color identifies chess side.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("unknown color %q", s)
	}
}

// Square indexes the board a1=0 .. h8=63.
type Square int8

const NoSquare Square = -1

func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

type PieceKind int

const (
	NoPieceKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Letter returns the lowercase UCI promotion letter; empty for pawn, king and none.
func (k PieceKind) Letter() string {
	switch k {
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	default:
		return ""
	}
}

// ParsePromotion maps "q", "queen", "n", ... to a promotable kind.
func ParsePromotion(s string) (PieceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "q", "queen":
		return Queen, nil
	case "r", "rook":
		return Rook, nil
	case "b", "bishop":
		return Bishop, nil
	case "n", "knight":
		return Knight, nil
	default:
		return NoPieceKind, fmt.Errorf("invalid promotion piece %q", s)
	}
}

type Piece struct {
	Color Color
	Kind  PieceKind
}

// Move is a coordinate move; Promotion is NoPieceKind unless the move promotes.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

func (m Move) UCI() string {
	return m.From.String() + m.To.String() + m.Promotion.Letter()
}

func (m Move) String() string { return m.UCI() }

// ParseMove parses UCI text ("e2e4", "e7e8q").
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid uci move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid uci move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid uci move %q: %w", s, err)
	}
	mv := Move{From: from, To: to}
	if len(s) == 5 {
		promo, err := ParsePromotion(s[4:])
		if err != nil {
			return Move{}, fmt.Errorf("invalid uci move %q: %w", s, err)
		}
		mv.Promotion = promo
	}
	return mv, nil
}

// Position is an immutable snapshot of a game. Providers return fresh values from Apply.
type Position interface {
	Turn() Color
	PieceAt(sq Square) (Piece, bool)
	// Moves is the UCI history from the initial position.
	Moves() []string
	FEN() string
}
