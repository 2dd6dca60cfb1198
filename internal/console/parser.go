// Package console turns typed commands into session events so the session
// can be driven from a terminal.
package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/session"
)

var ErrEmpty = errors.New("empty command")

// Command is one parsed input line.
type Command struct {
	Events []session.Event
	Help   bool
	Quit   bool
	Show   bool
}

func single(ev session.Event) Command { return Command{Events: []session.Event{ev}} }

// Parse maps a line to events. Bare squares ("e2") become clicks and bare
// UCI moves ("e7e8q") become a move attempt plus the promotion choice.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrEmpty
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.Join(args, " ")

	switch cmd {
	case "help", "?":
		return Command{Help: true}, nil
	case "quit", "exit":
		return Command{Quit: true}, nil
	case "show", "status", "board":
		return Command{Show: true}, nil
	case "menu", "reset":
		return single(session.Reset{}), nil
	case "back":
		return single(session.Back{}), nil
	case "mode":
		if len(args) != 1 {
			return Command{}, usage("mode pvp|ai|learning|online")
		}
		return parseMode(args[0])
	case "pvp", "ai", "learning", "online":
		return parseMode(cmd)
	case "time", "tc":
		p, err := parseTimeControl(rest)
		if err != nil {
			return Command{}, err
		}
		return single(session.ChooseTimeControl{Profile: p}), nil
	case "side":
		if len(args) != 1 {
			return Command{}, usage("side white|black")
		}
		return parseSide(args[0])
	case "white", "black":
		return parseSide(cmd)
	case "opening", "study":
		if rest == "" {
			return Command{}, usage("opening <name>")
		}
		return single(session.ChooseOpening{Name: rest}), nil
	case "click":
		if len(args) != 1 {
			return Command{}, usage("click <square>")
		}
		sq, err := chess.ParseSquare(args[0])
		if err != nil {
			return Command{}, err
		}
		return single(session.ClickSquare{Square: sq}), nil
	case "move", "mv":
		if len(args) != 1 {
			return Command{}, usage("move <uci>")
		}
		return parseMove(args[0])
	case "promote":
		if len(args) != 1 {
			return Command{}, usage("promote q|r|b|n")
		}
		return parsePromotion(args[0])
	case "queen", "rook", "bishop", "knight":
		return parsePromotion(cmd)
	case "cancel":
		return single(session.CancelPromotion{}), nil
	case "resign":
		return single(session.Resign{}), nil
	case "connect", "login":
		if len(args) != 1 {
			return Command{}, usage("connect <token>")
		}
		return single(session.Connect{Token: args[0]}), nil
	case "seek", "find":
		p, err := parseOptionalTimeControl(rest)
		if err != nil {
			return Command{}, err
		}
		return single(session.FindOpponent{Profile: p}), nil
	case "challenge":
		if len(args) < 1 {
			return Command{}, usage("challenge <user> [time]")
		}
		p, err := parseOptionalTimeControl(strings.Join(args[1:], " "))
		if err != nil {
			return Command{}, err
		}
		return single(session.ChallengePlayer{Name: strings.TrimPrefix(args[0], "@"), Profile: p}), nil
	case "stop", "unseek":
		return single(session.CancelMatch{}), nil
	case "challenges", "inbox":
		return single(session.OpenChallenges{}), nil
	case "refresh":
		return single(session.RefreshChallenges{}), nil
	case "accept":
		if len(args) != 1 {
			return Command{}, usage("accept <challenge id>")
		}
		return single(session.AcceptChallenge{ID: args[0]}), nil
	}

	if len(args) == 0 {
		if sq, err := chess.ParseSquare(cmd); err == nil {
			return single(session.ClickSquare{Square: sq}), nil
		}
		if len(cmd) == 4 || len(cmd) == 5 {
			if c, err := parseMove(cmd); err == nil {
				return c, nil
			}
		}
	}
	return Command{}, fmt.Errorf("unknown command %q, try help", parts[0])
}

func usage(s string) error { return fmt.Errorf("usage: %s", s) }

func parseMode(s string) (Command, error) {
	k, err := session.ParseKind(s)
	if err != nil {
		return Command{}, err
	}
	return single(session.SelectMode{Kind: k}), nil
}

func parseSide(s string) (Command, error) {
	c, err := chess.ParseColor(s)
	if err != nil {
		return Command{}, err
	}
	return single(session.ChooseSide{Color: c}), nil
}

func parseMove(s string) (Command, error) {
	mv, err := chess.ParseMove(s)
	if err != nil {
		return Command{}, err
	}
	cmd := single(session.AttemptMove{From: mv.From, To: mv.To})
	if mv.Promotion != chess.NoPieceKind {
		cmd.Events = append(cmd.Events, session.ChoosePromotion{Piece: mv.Promotion})
	}
	return cmd, nil
}

func parsePromotion(s string) (Command, error) {
	k, err := chess.ParsePromotion(s)
	if err != nil {
		return Command{}, err
	}
	return single(session.ChoosePromotion{Piece: k}), nil
}

func parseTimeControl(s string) (session.TimeControlProfile, error) {
	if s == "" {
		return session.TimeControlProfile{}, usage("time <label|m+i|index|none>")
	}
	p, ok := session.FindTimeControl(s)
	if !ok {
		return session.TimeControlProfile{}, fmt.Errorf("unknown time control %q", s)
	}
	return p, nil
}

// parseOptionalTimeControl treats a missing value as "no clock", which the
// session turns into its default seek.
func parseOptionalTimeControl(s string) (session.TimeControlProfile, error) {
	if strings.TrimSpace(s) == "" {
		return session.TimeControlProfile{}, nil
	}
	return parseTimeControl(s)
}
