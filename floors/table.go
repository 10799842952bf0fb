package floors

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed floors.yaml
var defaultTableYAML []byte

// ErrUnknownFloor is returned when a floor identifier is not in the table.
var ErrUnknownFloor = errors.New("floors: unknown floor")

type Floor struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	File  string `yaml:"file"`
}

// Table maps floor identifiers to map image files. It is static once loaded.
type Table struct {
	Default string  `yaml:"default"`
	Floors  []Floor `yaml:"floors"`

	byID   map[string]int
	byFile map[string]int
}

// DefaultTable returns the built-in campus table (campus plus levels 1-8).
func DefaultTable() *Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic("floors: embedded table is invalid: " + err.Error())
	}
	return t
}

// LoadTable reads a table from disk, or returns the default table when path is empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("floors: read %s: %w", path, err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("floors: %s: %w", path, err)
	}
	return t, nil
}

func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal table: %w", err)
	}
	if len(t.Floors) == 0 {
		return nil, fmt.Errorf("table has no floors")
	}

	t.byID = make(map[string]int, len(t.Floors))
	t.byFile = make(map[string]int, len(t.Floors))
	for i, f := range t.Floors {
		if f.ID == "" || f.File == "" {
			return nil, fmt.Errorf("floor %d: id and file are required", i)
		}
		if _, dup := t.byID[f.ID]; dup {
			return nil, fmt.Errorf("duplicate floor id %q", f.ID)
		}
		if f.Label == "" {
			t.Floors[i].Label = f.ID
		}
		t.byID[f.ID] = i
		t.byFile[filepath.Base(f.File)] = i
	}

	if t.Default == "" {
		t.Default = t.Floors[0].ID
	}
	if _, ok := t.byID[t.Default]; !ok {
		return nil, fmt.Errorf("default floor %q is not in the table", t.Default)
	}
	return &t, nil
}

func (t *Table) Resolve(id string) (Floor, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Floor{}, false
	}
	return t.Floors[i], true
}

// ByFile finds the floor whose asset has the given base name.
func (t *Table) ByFile(name string) (Floor, bool) {
	i, ok := t.byFile[filepath.Base(name)]
	if !ok {
		return Floor{}, false
	}
	return t.Floors[i], true
}

// ParseLinkID converts a sidebar link id ("map-campus", "map-level3") to a
// floor identifier.
func ParseLinkID(link string) (string, bool) {
	id, ok := strings.CutPrefix(link, "map-")
	if !ok || id == "" {
		return "", false
	}
	if id == "campus" {
		return id, true
	}
	if level, ok := strings.CutPrefix(id, "level"); ok && level != "" {
		return level, true
	}
	return "", false
}
