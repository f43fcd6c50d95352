package component

import "github.com/arenacore/arena/internal/vmath"

// ShapeKind selects the collision geometry of a Shape.
type ShapeKind uint8

const (
	ShapeRectangle ShapeKind = iota
	ShapeCircle
	ShapeLine // drawn only; collides through the centre-distance fallback
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	}
	return "line"
}

// ParseShapeKind accepts the names used in entity templates.
func ParseShapeKind(s string) (ShapeKind, bool) {
	switch s {
	case "rectangle", "rect":
		return ShapeRectangle, true
	case "circle":
		return ShapeCircle, true
	case "line":
		return ShapeLine, true
	}
	return 0, false
}

// Color is an RGBA colour with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// White is the colour of entities that never had one assigned.
var White = Color{1, 1, 1, 1}

// Shape is the render metadata the core reads for collision and bounds.
type Shape struct {
	Kind  ShapeKind
	Size  vmath.Vec2 // width, height
	Color Color
}

// Center returns the shape centre for an entity positioned at pos.
func (s *Shape) Center(pos vmath.Vec2) vmath.Vec2 {
	return pos.Add(s.Size.Scale(0.5))
}

// Radius is half the width; circles are sized by their bounding box.
func (s *Shape) Radius() float64 {
	return s.Size.X / 2
}
