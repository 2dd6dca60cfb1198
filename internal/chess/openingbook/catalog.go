package openingbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

// Opening is one named scripted line for learning mode.
type Opening struct {
	Name     string
	Category string
	Moves    []string
}

// Catalog keeps openings in file order; lookups are by exact name.
type Catalog struct {
	openings []Opening
	byName   map[string]int
	builtin  bool
}

var errEmptyCatalog = errors.New("opening catalog has no valid lines")

var builtinOpenings = []Opening{
	{Name: "Italian Game", Category: "Open Games", Moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4"}},
	{Name: "Sicilian Defense", Category: "Semi-Open Games", Moves: []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4"}},
	{Name: "Ruy Lopez", Category: "Open Games", Moves: []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"}},
	{Name: "French Defense", Category: "Semi-Open Games", Moves: []string{"e2e4", "e7e6", "d2d4", "d7d5"}},
	{Name: "Queen's Gambit", Category: "Closed Games", Moves: []string{"d2d4", "d7d5", "c2c4"}},
}

// DefaultCatalog returns the built-in set.
func DefaultCatalog() *Catalog {
	c, _ := newCatalog(builtinOpenings)
	c.builtin = true
	return c
}

// LoadCatalog reads path (or the default location when empty). Any failure
// falls back to the built-in set, so the result is never empty.
func LoadCatalog(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		for _, candidate := range defaultCatalogPaths() {
			if exists(candidate) {
				resolved = candidate
				break
			}
		}
	}
	if resolved == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		logger.Warn("opening_catalog_read_failed", zap.String("path", resolved), zap.Error(err))
		return DefaultCatalog()
	}
	c, err := ParseCatalog(raw, logger)
	if err != nil {
		logger.Warn("opening_catalog_invalid", zap.String("path", resolved), zap.Error(err))
		return DefaultCatalog()
	}
	logger.Info("opening_catalog_loaded", zap.String("path", resolved), zap.Int("openings", c.Len()))
	return c
}

// ParseCatalog flattens a category -> {name -> [uci...]} document.
// JSON input is accepted since YAML is a superset. Lines with bad moves are skipped.
func ParseCatalog(raw []byte, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode opening catalog: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, errEmptyCatalog
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("opening catalog root must be a mapping, got %s", kindName(root.Kind))
	}

	var flat []Opening
	for i := 0; i+1 < len(root.Content); i += 2 {
		category := root.Content[i].Value
		group := root.Content[i+1]
		if group.Kind != yaml.MappingNode {
			logger.Warn("opening_catalog_category_skipped", zap.String("category", category))
			continue
		}
		for j := 0; j+1 < len(group.Content); j += 2 {
			name := strings.TrimSpace(group.Content[j].Value)
			var moves []string
			if err := group.Content[j+1].Decode(&moves); err != nil {
				logger.Warn("opening_catalog_line_skipped", zap.String("name", name), zap.Error(err))
				continue
			}
			if err := validateLine(moves); name == "" || err != nil {
				logger.Warn("opening_catalog_line_skipped", zap.String("name", name), zap.Error(err))
				continue
			}
			flat = append(flat, Opening{Name: name, Category: category, Moves: normalizeMoves(moves)})
		}
	}
	return newCatalog(flat)
}

func newCatalog(openings []Opening) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]int, len(openings))}
	for _, o := range openings {
		if idx, dup := c.byName[o.Name]; dup {
			// Later categories override earlier ones with the same name.
			c.openings[idx] = o
			continue
		}
		c.byName[o.Name] = len(c.openings)
		c.openings = append(c.openings, o)
	}
	if len(c.openings) == 0 {
		return nil, errEmptyCatalog
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.openings) }

func (c *Catalog) Builtin() bool { return c.builtin }

func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.openings))
	for _, o := range c.openings {
		out = append(out, o.Name)
	}
	return out
}

func (c *Catalog) Get(name string) (Opening, bool) {
	idx, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Opening{}, false
	}
	o := c.openings[idx]
	o.Moves = append([]string(nil), o.Moves...)
	return o, true
}

func (c *Catalog) Sequence(name string) ([]string, bool) {
	o, ok := c.Get(name)
	return o.Moves, ok
}

// Flatten returns name -> sequence.
func (c *Catalog) Flatten() map[string][]string {
	out := make(map[string][]string, len(c.openings))
	for _, o := range c.openings {
		out[o.Name] = append([]string(nil), o.Moves...)
	}
	return out
}

func validateLine(moves []string) error {
	if len(moves) == 0 {
		return errors.New("empty move list")
	}
	_, err := gameFromMoves(normalizeMoves(moves))
	return err
}

func normalizeMoves(moves []string) []string {
	out := make([]string, 0, len(moves))
	for _, mv := range moves {
		out = append(out, strings.ToLower(strings.TrimSpace(mv)))
	}
	return out
}

func defaultCatalogPaths() []string {
	return []string{
		filepath.Join("resources", "opening", "openings.yaml"),
		filepath.Join("resources", "opening", "openings.json"),
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
