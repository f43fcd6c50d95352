package data

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/vmath"
)

//go:embed entity_list.yaml
var defaultEntityList []byte

// EntityTemplate holds the spawn defaults for one entity kind.
type EntityTemplate struct {
	Kind     string          `yaml:"kind"` // Player, Enemy, Bullet, Decoration
	Name     string          `yaml:"name"`
	Shape    string          `yaml:"shape"` // rectangle, circle, line, or empty for none
	Width    float64         `yaml:"width"`
	Height   float64         `yaml:"height"`
	Color    []float64       `yaml:"color"` // r, g, b, a
	Mass     float64         `yaml:"mass"`
	Friction float64         `yaml:"friction"`
	Speed    float64         `yaml:"speed"`    // player move speed or bullet muzzle speed
	Lifetime float64         `yaml:"lifetime"` // bullets, seconds
	Wander   *WanderTemplate `yaml:"wander"`
}

// WanderTemplate is the re-decision range for wandering AI.
type WanderTemplate struct {
	IntervalMin float64 `yaml:"interval_min"`
	IntervalMax float64 `yaml:"interval_max"`
	SpeedMin    float64 `yaml:"speed_min"`
	SpeedMax    float64 `yaml:"speed_max"`
}

// HasShape reports whether entities of this template carry render metadata.
func (t *EntityTemplate) HasShape() bool {
	return t.Shape != ""
}

// ShapeComponent builds the Shape for this template. ok is false when the
// template has no shape.
func (t *EntityTemplate) ShapeComponent() (component.Shape, bool) {
	if !t.HasShape() {
		return component.Shape{}, false
	}
	kind, _ := component.ParseShapeKind(t.Shape)
	return component.Shape{
		Kind:  kind,
		Size:  vmath.V(t.Width, t.Height),
		Color: t.ColorValue(),
	}, true
}

// ColorValue returns the template colour, white when unset.
func (t *EntityTemplate) ColorValue() component.Color {
	if len(t.Color) != 4 {
		return component.White
	}
	return component.Color{R: t.Color[0], G: t.Color[1], B: t.Color[2], A: t.Color[3]}
}

type entityListFile struct {
	Entities []EntityTemplate `yaml:"entities"`
}

// EntityTable holds one template per entity kind.
type EntityTable struct {
	templates map[component.Kind]*EntityTemplate
}

// LoadEntityTable loads entity templates from a YAML file. Kinds missing from
// the file keep their built-in defaults.
func LoadEntityTable(path string) (*EntityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity_list: %w", err)
	}
	return ParseEntityTable(data)
}

// ParseEntityTable parses YAML entity templates layered over the defaults.
func ParseEntityTable(data []byte) (*EntityTable, error) {
	t := DefaultEntityTable()
	var f entityListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse entity_list: %w", err)
	}
	for i := range f.Entities {
		tpl := &f.Entities[i]
		if tpl.Shape != "" {
			if _, ok := component.ParseShapeKind(tpl.Shape); !ok {
				return nil, fmt.Errorf("entity %q: unknown shape %q", tpl.Kind, tpl.Shape)
			}
		}
		if tpl.Color != nil && len(tpl.Color) != 4 {
			return nil, fmt.Errorf("entity %q: color needs 4 channels, got %d", tpl.Kind, len(tpl.Color))
		}
		t.templates[component.ParseKind(tpl.Kind)] = tpl
	}
	return t, nil
}

// DefaultEntityTable returns the built-in templates.
func DefaultEntityTable() *EntityTable {
	t := &EntityTable{templates: make(map[component.Kind]*EntityTemplate, 4)}
	var f entityListFile
	if err := yaml.Unmarshal(defaultEntityList, &f); err != nil {
		panic(fmt.Sprintf("embedded entity_list.yaml: %v", err))
	}
	for i := range f.Entities {
		tpl := &f.Entities[i]
		t.templates[component.ParseKind(tpl.Kind)] = tpl
	}
	return t
}

// Get returns the template for kind. Every kind has one.
func (t *EntityTable) Get(kind component.Kind) *EntityTemplate {
	if tpl, ok := t.templates[kind]; ok {
		return tpl
	}
	return t.templates[component.KindDecoration]
}

// Count returns the number of templates.
func (t *EntityTable) Count() int {
	return len(t.templates)
}
