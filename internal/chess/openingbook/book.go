package openingbook

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	chesslib "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chess"
)

// Book answers candidate moves from a polyglot file. A Book without a file
// answers nothing; it never fails a caller.
type Book struct {
	polyglot *chesslib.PolyglotBook
	eco      *opening.BookECO
	path     string
	logger   *zap.Logger
}

type Entry struct {
	Move   string
	Weight uint16
}

// Open loads the book at path, or the first default path found when path is empty.
// Missing and corrupt files yield an empty Book and a logged warning.
func Open(path string, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Book{eco: opening.NewBookECO(), logger: logger}

	resolved, err := ResolveBookPath(path)
	if err != nil {
		logger.Warn("opening_book_missing", zap.String("path", path), zap.Error(err))
		return b
	}
	if resolved == "" {
		logger.Info("opening_book_disabled")
		return b
	}
	pb, err := LoadFromPath(resolved)
	if err != nil {
		logger.Warn("opening_book_load_failed", zap.String("path", resolved), zap.Error(err))
		return b
	}
	b.polyglot = pb
	b.path = resolved
	logger.Info("opening_book_loaded", zap.String("path", resolved))
	return b
}

// FromReader builds a Book from polyglot bytes.
func FromReader(r io.Reader, logger *zap.Logger) (*Book, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pb, err := chesslib.LoadFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("load polyglot book: %w", err)
	}
	return &Book{polyglot: pb, eco: opening.NewBookECO(), logger: logger}, nil
}

func (b *Book) Available() bool { return b != nil && b.polyglot != nil }

func (b *Book) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

// Suggestions returns the legal book moves for pos in UCI form, heaviest first.
func (b *Book) Suggestions(pos chess.Position) []string {
	entries := b.Lookup(pos)
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Move)
	}
	return out
}

func (b *Book) Lookup(pos chess.Position) []Entry {
	if !b.Available() || pos == nil {
		return nil
	}
	game, err := gameFromMoves(pos.Moves())
	if err != nil {
		b.logger.Debug("opening_book_position_invalid", zap.Error(err))
		return nil
	}

	hashStr, err := chesslib.NewZobristHasher().HashPosition(game.FEN())
	if err != nil {
		b.logger.Debug("opening_book_hash_failed", zap.Error(err))
		return nil
	}
	found := b.polyglot.FindMoves(chesslib.ZobristHashToUint64(hashStr))
	if len(found) == 0 {
		return nil
	}

	merged := make(map[string]int, len(found))
	for _, entry := range found {
		mv := chesslib.DecodeMove(entry.Move).ToMove()
		uciMove := mv.String()
		verify := game.Clone()
		if err := verify.PushNotationMove(uciMove, chesslib.UCINotation{}, nil); err != nil {
			continue
		}
		merged[uciMove] += int(entry.Weight)
	}

	out := make([]Entry, 0, len(merged))
	for move, weight := range merged {
		if weight > 0xffff {
			weight = 0xffff
		}
		out = append(out, Entry{Move: move, Weight: uint16(weight)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight == out[j].Weight {
			return out[i].Move < out[j].Move
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}

// OpeningName reports the ECO code and title for the moves played, if any.
func (b *Book) OpeningName(pos chess.Position) (string, string) {
	if b == nil || b.eco == nil || pos == nil {
		return "", ""
	}
	game, err := gameFromMoves(pos.Moves())
	if err != nil {
		return "", ""
	}
	eco := b.eco.Find(game.Moves())
	if eco == nil {
		return "", ""
	}
	return eco.Code(), eco.Title()
}

func ResolveBookPath(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if exists(explicit) {
			return explicit, nil
		}
		return "", fmt.Errorf("polyglot book points to missing file: %s", explicit)
	}
	for _, candidate := range defaultBookPaths() {
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func defaultBookPaths() []string {
	return []string{
		filepath.Join("resources", "opening", "book.bin"),
		filepath.Join("engine", "human.bin"),
	}
}

func LoadFromPath(bookPath string) (*chesslib.PolyglotBook, error) {
	if strings.TrimSpace(bookPath) == "" {
		return nil, fmt.Errorf("polyglot book path required")
	}
	file, err := os.Open(bookPath)
	if err != nil {
		return nil, fmt.Errorf("open polyglot book %q: %w", bookPath, err)
	}
	defer file.Close()

	pb, err := chesslib.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("load polyglot book %q: %w", bookPath, err)
	}
	return pb, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func gameFromMoves(moves []string) (*chesslib.Game, error) {
	game := chesslib.NewGame()
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, chesslib.UCINotation{}, nil); err != nil {
			return nil, fmt.Errorf("apply move %q: %w", mv, err)
		}
	}
	return game, nil
}
