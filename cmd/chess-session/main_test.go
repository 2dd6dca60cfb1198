package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/session"
)

func TestRun_ScriptedLocalGame(t *testing.T) {
	ctrl := session.New(chess.NewStandardRules())
	in := strings.NewReader("pvp\ntime none\nbogus\nf2f3\ne7e5\ng2g4\nd8h4\nshow\nquit\n")
	var out bytes.Buffer

	run(ctrl, in, &out, time.Millisecond, zap.NewNop())

	text := out.String()
	for _, want := range []string{
		"[menu]",
		`unknown command "bogus"`,
		"Result: 0-1",
		"Game over: 0-1 (Checkmate)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if !ctrl.State().GameOver {
		t.Fatalf("expected finished game")
	}
}

func TestRun_StopsAtEndOfInput(t *testing.T) {
	ctrl := session.New(chess.NewStandardRules())
	done := make(chan struct{})
	go func() {
		run(ctrl, strings.NewReader("pvp\n"), &bytes.Buffer{}, time.Millisecond, zap.NewNop())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return after input closed")
	}
	if ctrl.State().Mode != session.ModeTimeSelect {
		t.Fatalf("mode = %s", ctrl.State().Mode)
	}
}
