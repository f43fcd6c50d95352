package component

import "github.com/arenacore/arena/internal/vmath"

// Projectile moves its owner by Velocity every frame until Lifetime runs out.
type Projectile struct {
	Velocity vmath.Vec2
	Lifetime float64 // seconds remaining
}
