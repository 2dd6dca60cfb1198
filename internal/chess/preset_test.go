package chess

import (
	"errors"
	"testing"
	"time"
)

func TestAllPresetsValid(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := GetPreset(name)
		if err != nil {
			t.Fatalf("GetPreset(%s): %v", name, err)
		}
		if err := ValidatePreset(p); err != nil {
			t.Fatalf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_Aliases(t *testing.T) {
	p, err := GetPreset("master")
	if err != nil || p.Name != "level8" {
		t.Fatalf("master alias = %+v, %v", p, err)
	}
	p, err = GetPreset("")
	if err != nil || p.Name != DefaultPreset {
		t.Fatalf("empty name = %+v, %v", p, err)
	}
	if _, err := GetPreset("level99"); err == nil {
		t.Fatalf("unknown preset accepted")
	}
}

func TestFormatGoCommand_BudgetOverridesMoveTime(t *testing.T) {
	p, _ := GetPreset("level3")
	if got := FormatGoCommand(p, 0); got != "go movetime 100" {
		t.Fatalf("preset go = %q", got)
	}
	if got := FormatGoCommand(p, 250*time.Millisecond); got != "go movetime 250" {
		t.Fatalf("budget go = %q", got)
	}
	p1, _ := GetPreset("level1")
	if got := FormatGoCommand(p1, 0); got != "go depth 5 movetime 50" {
		t.Fatalf("level1 go = %q", got)
	}
}

func TestNewEngine_MissingBinaryIsUnavailable(t *testing.T) {
	p, _ := GetPreset("level3")
	_, err := NewEngine("/definitely/not/a/stockfish", p, nil)
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}
