package component

import "github.com/arenacore/arena/internal/vmath"

// Physics carries the velocity-driven state of an entity.
// Friction is a per-frame damping factor in (0,1]; 1 means no damping.
type Physics struct {
	Velocity vmath.Vec2
	Mass     float64
	Friction float64
}
