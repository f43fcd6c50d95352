package component

import "github.com/arenacore/arena/internal/vmath"

// Transform is the world position of an entity. For rectangles it is the
// top-left corner; for circles the centre is Position + Size/2.
type Transform struct {
	Position vmath.Vec2
}
