package chess

import (
	"fmt"
	"sort"
	"strings"
)

// EnginePreset bundles the UCI options and search limits for one strength level.
type EnginePreset struct {
	Name           string
	SkillLevel     int
	Elo            int
	Threads        int
	HashMB         int
	MoveTimeMillis int
	DepthCap       int
}

const (
	defaultThreads = 1
	DefaultPreset  = "level3"
)

var enginePresets = map[string]EnginePreset{
	"level1": {Name: "level1", SkillLevel: 0, Elo: 0, Threads: defaultThreads, HashMB: 16, MoveTimeMillis: 50, DepthCap: 5},
	"level2": {Name: "level2", SkillLevel: 0, Elo: 0, Threads: defaultThreads, HashMB: 16, MoveTimeMillis: 80, DepthCap: 6},
	"level3": {Name: "level3", SkillLevel: 1, Elo: 0, Threads: defaultThreads, HashMB: 24, MoveTimeMillis: 100, DepthCap: 0},
	"level4": {Name: "level4", SkillLevel: 3, Elo: 1350, Threads: defaultThreads, HashMB: 32, MoveTimeMillis: 150},
	"level5": {Name: "level5", SkillLevel: 7, Elo: 1500, Threads: defaultThreads, HashMB: 48, MoveTimeMillis: 200},
	"level6": {Name: "level6", SkillLevel: 11, Elo: 1700, Threads: 2, HashMB: 64, MoveTimeMillis: 300},
	"level7": {Name: "level7", SkillLevel: 16, Elo: 2000, Threads: 2, HashMB: 96, MoveTimeMillis: 500},
	"level8": {Name: "level8", SkillLevel: 20, Elo: 0, Threads: 4, HashMB: 128, MoveTimeMillis: 1000},
}

// GetPreset resolves a level name or one of the aliases beginner/intermediate/advanced/master.
func GetPreset(name string) (EnginePreset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		name = DefaultPreset
	case "beginner":
		name = "level1"
	case "intermediate":
		name = "level5"
	case "advanced":
		name = "level7"
	case "master":
		name = "level8"
	}
	p, ok := enginePresets[name]
	if !ok {
		return EnginePreset{}, fmt.Errorf("unknown chess preset: %s", name)
	}
	return p, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(enginePresets))
	for name := range enginePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ValidatePreset(p EnginePreset) error {
	switch {
	case p.SkillLevel < 0 || p.SkillLevel > 20:
		return fmt.Errorf("skill level %d out of range 0-20", p.SkillLevel)
	case p.Threads <= 0:
		return fmt.Errorf("threads must be > 0: %d", p.Threads)
	case p.HashMB <= 0:
		return fmt.Errorf("hash size must be > 0: %d", p.HashMB)
	case p.MoveTimeMillis < 0:
		return fmt.Errorf("move time must be >= 0: %d", p.MoveTimeMillis)
	case p.DepthCap < 0:
		return fmt.Errorf("depth cap must be >= 0: %d", p.DepthCap)
	case p.Elo < 0:
		return fmt.Errorf("elo must be >= 0: %d", p.Elo)
	case p.MoveTimeMillis == 0 && p.DepthCap == 0:
		return fmt.Errorf("preset %s does not define search limits", p.Name)
	}
	return nil
}
