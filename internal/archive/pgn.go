package archive

import (
	"fmt"
	"strings"
	"time"

	chesslib "github.com/corentings/chess/v2"
)

// SANMoves replays uci from the start position and returns the SAN list.
// Replay stops at the first illegal move.
func SANMoves(uci []string) ([]string, error) {
	game := chesslib.NewGame()
	out := make([]string, 0, len(uci))
	for _, mv := range uci {
		pos := game.Position()
		move, err := chesslib.UCINotation{}.Decode(pos, mv)
		if err != nil {
			return out, fmt.Errorf("decode %q: %w", mv, err)
		}
		san := chesslib.AlgebraicNotation{}.Encode(pos, move)
		if err := game.Move(move, nil); err != nil {
			return out, fmt.Errorf("apply %q: %w", mv, err)
		}
		out = append(out, san)
	}
	return out, nil
}

// BuildPGN renders rec with the seven-tag roster plus TimeControl and Termination.
func BuildPGN(rec GameRecord) string {
	san, _ := SANMoves(rec.MovesUCI)
	date := rec.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := strings.TrimSpace(rec.Result)
	if result == "" {
		result = "*"
	}

	var b strings.Builder
	b.WriteString("[Event \"Casual game\"]\n")
	b.WriteString("[Site \"cheese-desk\"]\n")
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	b.WriteString("[Round \"-\"]\n")
	fmt.Fprintf(&b, "[White \"%s\"]\n", sanitizePGN(orDash(rec.White)))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", sanitizePGN(orDash(rec.Black)))
	fmt.Fprintf(&b, "[Result \"%s\"]\n", result)
	if tc := strings.TrimSpace(rec.TimeControl); tc != "" {
		fmt.Fprintf(&b, "[TimeControl \"%s\"]\n", sanitizePGN(tc))
	}
	if term := strings.TrimSpace(rec.Termination); term != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", sanitizePGN(strings.ToLower(term)))
	}
	b.WriteString("\n")

	for i := 0; i < len(san); i += 2 {
		fmt.Fprintf(&b, "%d. %s ", i/2+1, san[i])
		if i+1 < len(san) {
			b.WriteString(san[i+1])
			b.WriteString(" ")
		}
	}
	b.WriteString(result)
	return b.String()
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
