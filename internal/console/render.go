package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/park285/cheese-desk/pkg/sessiondto"
)

const helpText = `Commands:
  pvp | ai | learning | online      choose a mode
  time <label|m+i|index|none>       choose a time control
  white | black                     choose your side against the engine
  opening <name>                    start studying an opening
  e2 / e2e4 / e7e8q                 click a square or play a move
  promote q|r|b|n, cancel           finish or cancel a promotion
  resign, back, menu                leave the current game
  connect <token>                   sign in to the online service
  seek [time], challenge <user> [time], stop
  challenges, refresh, accept <id>
  show, help, quit`

func HelpText() string { return helpText }

// StatusLine is the one-line summary printed whenever the session changes.
func StatusLine(s sessiondto.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", s.Mode)
	if s.Kind != "none" && s.Kind != "" {
		fmt.Fprintf(&b, " %s", s.Kind)
	}
	if s.LastMove != "" {
		fmt.Fprintf(&b, " last=%s", s.LastMove)
	}
	if s.Clock.Enabled {
		fmt.Fprintf(&b, " W %s | B %s", clockText(s.Clock.White), clockText(s.Clock.Black))
	}
	if s.AIThinking {
		b.WriteString(" (thinking)")
	}
	if s.Status != "" {
		fmt.Fprintf(&b, " %s", s.Status)
	}
	return b.String()
}

// Details renders the full snapshot for the show command.
func Details(s sessiondto.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FEN: %s\n", s.FEN)
	fmt.Fprintf(&b, "Turn: %s", s.Turn)
	if s.Kind == "ai" || s.Kind == "online" {
		fmt.Fprintf(&b, " (you: %s)", s.PlayerColor)
	}
	b.WriteString("\n")
	if len(s.MovesUCI) > 0 {
		fmt.Fprintf(&b, "Moves: %s\n", strings.Join(s.MovesUCI, " "))
	}
	if s.Selected != "" {
		fmt.Fprintf(&b, "Selected: %s\n", s.Selected)
	}
	if s.Pending != nil {
		fmt.Fprintf(&b, "Promotion pending: %s%s\n", s.Pending.From, s.Pending.To)
	}
	if s.Opening != "" {
		fmt.Fprintf(&b, "Opening: %s\n", s.Opening)
	}
	if len(s.Hints) > 0 {
		fmt.Fprintf(&b, "Hints: %s\n", strings.Join(s.Hints, ", "))
	}
	fmt.Fprintf(&b, "Material: %d-%d", s.Material.White, s.Material.Black)
	if len(s.Captured.White) > 0 || len(s.Captured.Black) > 0 {
		fmt.Fprintf(&b, " (white took %s; black took %s)", orNone(s.Captured.White), orNone(s.Captured.Black))
	}
	b.WriteString("\n")
	if s.Clock.Enabled {
		fmt.Fprintf(&b, "Clock: white %s, black %s, +%ds", clockText(s.Clock.White), clockText(s.Clock.Black), int(s.Clock.Increment/time.Second))
		if s.Clock.Expired {
			fmt.Fprintf(&b, ", %s flagged", s.Clock.Flagged)
		}
		b.WriteString("\n")
	}
	if l := s.Learning; l != nil {
		fmt.Fprintf(&b, "Learning: %s %d/%d", l.Title, l.Step, l.Total)
		if l.Next != "" {
			fmt.Fprintf(&b, ", next %s", l.Next)
		}
		b.WriteString("\n")
	}
	if o := s.Online; o != nil {
		fmt.Fprintf(&b, "Online: connected=%t account=%s matching=%t", o.Connected, orDash(o.Account), o.Matching)
		if o.GameID != "" {
			fmt.Fprintf(&b, " game=%s as %s", o.GameID, o.Color)
		}
		b.WriteString("\n")
		for _, ch := range o.Challenges {
			fmt.Fprintf(&b, "  challenge %s from %s %d+%d (%s)\n", ch.ID, ch.Challenger, ch.Minutes, ch.Increment, ch.Status)
		}
	}
	for i, tc := range s.TimeControls {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, tc.Label)
	}
	for _, name := range s.Openings {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	if s.GameOver {
		fmt.Fprintf(&b, "Result: %s\n", s.Result)
	}
	return strings.TrimRight(b.String(), "\n")
}

func clockText(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(100 * time.Millisecond)
	m := int(d / time.Minute)
	sec := d % time.Minute
	if d < 10*time.Second {
		return fmt.Sprintf("%d:%04.1f", m, sec.Seconds())
	}
	return fmt.Sprintf("%d:%02d", m, int(sec/time.Second))
}

func orNone(s []string) string {
	if len(s) == 0 {
		return "nothing"
	}
	return strings.Join(s, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
