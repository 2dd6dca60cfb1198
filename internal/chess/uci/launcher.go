package uci

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

var ErrBinaryNotFound = errors.New("engine binary not found")

type LauncherConfig struct {
	BinaryPath string
	Logger     *zap.Logger
}

// Launcher spawns engine sessions from a verified binary path.
type Launcher struct {
	binaryPath string
	logger     *zap.Logger
}

func NewLauncher(cfg LauncherConfig) (*Launcher, error) {
	path, err := resolveBinary(cfg.BinaryPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{binaryPath: path, logger: logger}, nil
}

func (l *Launcher) BinaryPath() string { return l.binaryPath }

// Launch starts a process, applies options and waits for readiness.
func (l *Launcher) Launch(ctx context.Context, opt Options) (*Session, error) {
	s, err := NewSession(ctx, l.binaryPath, opt, l.logger)
	if err != nil {
		return nil, err
	}
	if err := s.NewGame(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("new game: %w", err)
	}
	l.logger.Info("uci_session_started",
		zap.String("binary", l.binaryPath),
		zap.String("options", optionsKey(opt)),
	)
	return s, nil
}

func resolveBinary(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: path is empty", ErrBinaryNotFound)
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	// Bare names such as "stockfish" are looked up on PATH.
	found, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBinaryNotFound, path, err)
	}
	return found, nil
}

func optionsKey(opt Options) string {
	return fmt.Sprintf("thr=%d|skill=%d|hash=%d|elo=%d",
		opt.Threads,
		opt.SkillLevel,
		opt.HashMB,
		opt.Elo)
}
