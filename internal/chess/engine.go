package chess

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chess/uci"
)

var ErrEngineUnavailable = errors.New("engine unavailable")

// Engine is the opponent process for single-player games.
// Start must succeed before Search; Close may be called at any time.
type Engine struct {
	launcher *uci.Launcher
	preset   EnginePreset
	logger   *zap.Logger

	mu      sync.Mutex
	session *uci.Session
	moves   []string
}

func NewEngine(binaryPath string, preset EnginePreset, logger *zap.Logger) (*Engine, error) {
	if err := ValidatePreset(preset); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	launcher, err := uci.NewLauncher(uci.LauncherConfig{BinaryPath: binaryPath, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return &Engine{launcher: launcher, preset: preset, logger: logger}, nil
}

func (e *Engine) Preset() EnginePreset { return e.preset }

// Start spawns the process. Calling it on a running engine begins a new game instead.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.moves = nil
	if e.session != nil {
		if err := e.session.NewGame(ctx); err == nil {
			return nil
		}
		_ = e.session.Close()
		e.session = nil
	}
	s, err := e.launcher.Launch(ctx, optionsFromPreset(e.preset))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	e.session = s
	return nil
}

func (e *Engine) SetPosition(moves []string) {
	e.mu.Lock()
	e.moves = append([]string(nil), moves...)
	e.mu.Unlock()
}

// Search returns the engine's best move in UCI form for the last SetPosition.
func (e *Engine) Search(ctx context.Context, budget time.Duration) (string, error) {
	e.mu.Lock()
	s := e.session
	moves := append([]string(nil), e.moves...)
	e.mu.Unlock()
	if s == nil {
		return "", ErrEngineUnavailable
	}

	start := time.Now()
	resp, err := s.Search(ctx, uci.SearchRequest{
		Moves:  moves,
		Limits: limitsFromPreset(e.preset, budget),
	})
	if err != nil {
		return "", fmt.Errorf("engine search: %w", err)
	}
	e.logger.Debug("engine_search",
		zap.String("preset", e.preset.Name),
		zap.Int("ply", len(moves)),
		zap.String("bestmove", resp.BestMove),
		zap.Int("score_cp", resp.ScoreCP),
		zap.Int("depth", resp.Depth),
		zap.Duration("took", time.Since(start)),
	)
	return resp.BestMove, nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Close()
}
