package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chessbuilder"
	"github.com/park285/cheese-desk/internal/config"
	"github.com/park285/cheese-desk/internal/console"
	"github.com/park285/cheese-desk/internal/obslog"
	"github.com/park285/cheese-desk/internal/session"
	"github.com/park285/cheese-desk/pkg/sessiondto"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()
	logger := obslog.L()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	deps, err := chessbuilder.New(cfg, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	ctrl := deps.NewSession()
	logger.Info("session_started",
		zap.String("preset", deps.Preset.Name),
		zap.Bool("engine", deps.Engine != nil),
		zap.Bool("book", deps.Book.Available()),
		zap.Int("openings", deps.Catalog.Len()),
		zap.Duration("tick", cfg.TickInterval()),
	)

	if cfg.OnlineToken != "" {
		ctrl.Handle(session.SelectMode{Kind: session.KindOnline})
		ctrl.Handle(session.Connect{Token: cfg.OnlineToken})
	}

	fmt.Println("Type help for commands.")
	run(ctrl, os.Stdin, os.Stdout, cfg.TickInterval(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := deps.Close(ctx); err != nil {
		logger.Warn("shutdown_incomplete", zap.Error(err))
	}
	logger.Info("session_stopped")
}

// run drives the session until quit, end of input or a termination signal.
// Each tick handles the lines typed since the last one, advances time and
// prints the status line when it changed.
func run(ctrl *session.Controller, in io.Reader, out io.Writer, tick time.Duration, logger *zap.Logger) {
	lines := make(chan string, 64)
	go readLines(in, lines)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var lastKey string
	render := func() {
		snap := ctrl.Snapshot()
		if key := changeKey(snap); key != lastKey {
			lastKey = key
			fmt.Fprintln(out, console.StatusLine(snap))
		}
	}
	render()

	inputClosed := false
	for {
		select {
		case <-sigCh:
			return
		case now := <-ticker.C:
			for drained := false; !drained && !inputClosed; {
				select {
				case line, ok := <-lines:
					if !ok {
						inputClosed = true
						break
					}
					if quit := apply(ctrl, line, out, logger); quit {
						render()
						return
					}
				default:
					drained = true
				}
			}
			ctrl.Update(now)
			render()
			if inputClosed {
				return
			}
		}
	}
}

func apply(ctrl *session.Controller, line string, out io.Writer, logger *zap.Logger) bool {
	cmd, err := console.Parse(line)
	if errors.Is(err, console.ErrEmpty) {
		return false
	}
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return false
	}
	switch {
	case cmd.Quit:
		return true
	case cmd.Help:
		fmt.Fprintln(out, console.HelpText())
	case cmd.Show:
		fmt.Fprintln(out, console.Details(ctrl.Snapshot()))
	}
	for _, ev := range cmd.Events {
		logger.Debug("console_event", zap.String("input", line), zap.String("event", fmt.Sprintf("%T", ev)))
		ctrl.Handle(ev)
	}
	return false
}

// changeKey ignores the running clock so a ticking game does not reprint every second.
func changeKey(s sessiondto.Snapshot) string {
	return fmt.Sprintf("%s|%s|%s|%s|%t|%t|%s", s.Mode, s.Kind, s.Status, s.LastMove, s.AIThinking, s.Clock.Expired, s.Selected)
}

func readLines(r io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out <- sc.Text()
	}
}
