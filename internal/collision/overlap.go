// Package collision holds the shape-pair overlap tests. It is pure: callers
// build Bodies from their own component data.
package collision

import (
	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/vmath"
)

// FallbackRadius is the position distance below which two bodies without
// comparable shapes are considered touching.
const FallbackRadius = 25.0

// Body is a positioned shape. A nil Shape means the entity has no render
// metadata and collides through the centre-distance fallback.
type Body struct {
	Position vmath.Vec2
	Shape    *component.Shape
}

// Center returns the shape centre, or Position when there is no shape.
func (b Body) Center() vmath.Vec2 {
	if b.Shape == nil {
		return b.Position
	}
	return b.Shape.Center(b.Position)
}

// Overlap reports whether a and b intersect. The result is symmetric in its
// arguments for every shape pair.
func Overlap(a, b Body) bool {
	if a.Shape == nil || b.Shape == nil {
		return fallback(a, b)
	}
	switch {
	case a.Shape.Kind == component.ShapeRectangle && b.Shape.Kind == component.ShapeRectangle:
		return rectRect(a, b)
	case a.Shape.Kind == component.ShapeCircle && b.Shape.Kind == component.ShapeCircle:
		return circleCircle(a, b)
	case a.Shape.Kind == component.ShapeRectangle && b.Shape.Kind == component.ShapeCircle:
		return rectCircle(a, b)
	case a.Shape.Kind == component.ShapeCircle && b.Shape.Kind == component.ShapeRectangle:
		return rectCircle(b, a)
	}
	return fallback(a, b)
}

// fallback compares raw positions, so a shaped body is measured from its
// anchor rather than its centre.
func fallback(a, b Body) bool {
	return a.Position.Distance(b.Position) < FallbackRadius
}

func rectRect(a, b Body) bool {
	ap, as := a.Position, a.Shape.Size
	bp, bs := b.Position, b.Shape.Size
	return ap.X < bp.X+bs.X && ap.X+as.X > bp.X &&
		ap.Y < bp.Y+bs.Y && ap.Y+as.Y > bp.Y
}

// circleCircle is boundary-inclusive: circles that exactly touch collide.
func circleCircle(a, b Body) bool {
	return a.Center().Distance(b.Center()) <= a.Shape.Radius()+b.Shape.Radius()
}

func rectCircle(rect, circle Body) bool {
	c := circle.Center()
	r := circle.Shape.Radius()
	lo := rect.Position
	hi := rect.Position.Add(rect.Shape.Size)
	nearest := vmath.V(vmath.Clamp(c.X, lo.X, hi.X), vmath.Clamp(c.Y, lo.Y, hi.Y))
	return c.DistanceSq(nearest) <= r*r
}
