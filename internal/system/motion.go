package system

import (
	"time"

	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/dispatch"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// MotionSystem integrates position from velocity and applies per-frame
// friction to every active Physics entity. Batched through the pool; each
// index touches only its own entity's Transform and Physics.
// Phase 1 (Behavior), after BehaviorSystem.
type MotionSystem struct {
	world *world.State
	pool  *dispatch.Pool
}

func NewMotionSystem(ws *world.State, pool *dispatch.Pool) *MotionSystem {
	return &MotionSystem{world: ws, pool: pool}
}

func (s *MotionSystem) Phase() coresys.Phase { return coresys.PhaseBehavior }

func (s *MotionSystem) Update(dt time.Duration) {
	s.Integrate(dt.Seconds())
}

// Integrate advances every Physics entity by dt seconds.
func (s *MotionSystem) Integrate(dt float64) []*dispatch.BatchError {
	phys := s.world.Physics
	return s.pool.ForEach("motion", phys.Len(), func(i int) {
		id, ph := phys.At(i)
		if !s.world.ECS.Active(id) {
			return
		}
		tf, ok := s.world.Transforms.Get(id)
		if !ok {
			return
		}
		next := tf.Position.Add(ph.Velocity.Scale(dt))
		if !next.IsFinite() {
			ph.Velocity = vmath.Vec2{}
			return
		}
		tf.Position = next
		ph.Velocity = ph.Velocity.Scale(ph.Friction)
	})
}
