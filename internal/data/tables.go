package data

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// DefaultPerceptionRange is used when a blueprint names no range.
const DefaultPerceptionRange = 12

// Surface is one walkmesh material.
type Surface struct {
	ID    int    `yaml:"id"`
	Label string `yaml:"label"`
	Walk  bool   `yaml:"walk"`
	Grass bool   `yaml:"grass"`
	Sound string `yaml:"sound"`
}

// PerceptionRange is a sight/hearing radius pair creatures refer to by id.
type PerceptionRange struct {
	ID      int     `yaml:"id"`
	Label   string  `yaml:"label"`
	Sight   float64 `yaml:"sight"`
	Hearing float64 `yaml:"hearing"`
}

// CameraStyle parameterizes the third-person camera.
type CameraStyle struct {
	Name      string  `yaml:"name"`
	Distance  float64 `yaml:"distance"`
	Pitch     float64 `yaml:"pitch"`
	Height    float64 `yaml:"height"`
	ViewAngle float64 `yaml:"view_angle"`
}

// Tables holds static rule data. It is built once and passed by pointer to
// everything that needs it; nothing mutates it after Parse.
type Tables struct {
	Surfaces         []Surface         `yaml:"surfaces"`
	PerceptionRanges []PerceptionRange `yaml:"perception_ranges"`
	CameraStyles     []CameraStyle     `yaml:"camera_styles"`

	surfaceByID map[int]Surface
	rangeByID   map[int]PerceptionRange
	styleByName map[string]CameraStyle
}

// DefaultTables parses the embedded tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTablesYAML)
}

// LoadTables reads tables from a YAML file.
// If the file doesn't exist, returns the embedded defaults.
func LoadTables(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTables()
		}
		return nil, fmt.Errorf("reading tables %s: %w", path, err)
	}
	t, err := ParseTables(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing tables %s: %w", path, err)
	}
	return t, nil
}

// ParseTables decodes and indexes tables. Duplicate ids are rejected.
func ParseTables(raw []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decoding tables: %w", err)
	}

	t.surfaceByID = make(map[int]Surface, len(t.Surfaces))
	for _, s := range t.Surfaces {
		if _, dup := t.surfaceByID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate surface id %d", s.ID)
		}
		t.surfaceByID[s.ID] = s
	}

	t.rangeByID = make(map[int]PerceptionRange, len(t.PerceptionRanges))
	for _, r := range t.PerceptionRanges {
		if _, dup := t.rangeByID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate perception range id %d", r.ID)
		}
		t.rangeByID[r.ID] = r
	}

	t.styleByName = make(map[string]CameraStyle, len(t.CameraStyles))
	for _, c := range t.CameraStyles {
		t.styleByName[c.Name] = c
	}

	return &t, nil
}

// IsWalkable reports whether a surface material can be walked on.
// Unknown materials are not walkable.
func (t *Tables) IsWalkable(material int) bool {
	return t.surfaceByID[material].Walk
}

// Surface returns the surface with the given id.
func (t *Tables) Surface(id int) (Surface, bool) {
	s, ok := t.surfaceByID[id]
	return s, ok
}

// PerceptionRange returns the range with the given id.
func (t *Tables) PerceptionRange(id int) (PerceptionRange, bool) {
	r, ok := t.rangeByID[id]
	return r, ok
}

// CameraStyle returns the named style, falling back to "default".
func (t *Tables) CameraStyle(name string) (CameraStyle, bool) {
	if c, ok := t.styleByName[name]; ok {
		return c, true
	}
	c, ok := t.styleByName["default"]
	return c, ok
}
