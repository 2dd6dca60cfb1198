package chess

import (
	"strconv"
	"strings"
	"time"

	"github.com/park285/cheese-desk/internal/chess/uci"
)

const defaultSearchBudget = 100 * time.Millisecond

func optionsFromPreset(p EnginePreset) uci.Options {
	return uci.Options{
		Threads:    p.Threads,
		SkillLevel: p.SkillLevel,
		HashMB:     p.HashMB,
		Elo:        p.Elo,
	}
}

// limitsFromPreset caps the search by budget when given, else by the preset's movetime.
func limitsFromPreset(p EnginePreset, budget time.Duration) uci.Limits {
	l := uci.Limits{
		Depth:          p.DepthCap,
		MoveTimeMillis: p.MoveTimeMillis,
	}
	if budget > 0 {
		l.MoveTimeMillis = int(budget / time.Millisecond)
	}
	if l.MoveTimeMillis <= 0 && l.Depth <= 0 {
		l.MoveTimeMillis = int(defaultSearchBudget / time.Millisecond)
	}
	return l
}

// FormatGoCommand renders the "go" line the engine receives for a preset.
func FormatGoCommand(p EnginePreset, budget time.Duration) string {
	tokens := []string{"go"}
	l := limitsFromPreset(p, budget)
	if l.Depth > 0 {
		tokens = append(tokens, "depth", strconv.Itoa(l.Depth))
	}
	if l.MoveTimeMillis > 0 {
		tokens = append(tokens, "movetime", strconv.Itoa(l.MoveTimeMillis))
	}
	return strings.Join(tokens, " ")
}
