package system

import (
	"time"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/dispatch"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// Avoidance tuning.
const (
	AvoidDistance   = 80.0
	AvoidStrength   = 30.0
	AvoidMaxImpulse = 30.0
)

// AvoidanceSystem pushes wandering entities away from each other before they
// touch. Positions are snapshotted serially, then every entity computes its
// own repulsion in a batch and writes only its own Physics.
// Phase 3 (AI).
type AvoidanceSystem struct {
	world *world.State
	pool  *dispatch.Pool
	grid  *world.Grid
	ids   []ecs.EntityID
	pos   []vmath.Vec2
}

func NewAvoidanceSystem(ws *world.State, pool *dispatch.Pool) *AvoidanceSystem {
	return &AvoidanceSystem{world: ws, pool: pool, grid: world.NewGrid(AvoidDistance)}
}

func (s *AvoidanceSystem) Phase() coresys.Phase { return coresys.PhaseAI }

func (s *AvoidanceSystem) Update(_ time.Duration) {
	s.Apply()
}

// Apply runs one avoidance pass.
func (s *AvoidanceSystem) Apply() []*dispatch.BatchError {
	s.ids = s.ids[:0]
	s.pos = s.pos[:0]
	s.grid.Reset()
	s.world.Wanders.Each(func(id ecs.EntityID, _ *component.Wander) {
		if !s.world.ECS.Active(id) {
			return
		}
		tf, ok := s.world.Transforms.Get(id)
		if !ok {
			return
		}
		s.grid.Insert(len(s.ids), tf.Position)
		s.ids = append(s.ids, id)
		s.pos = append(s.pos, tf.Position)
	})
	if len(s.ids) <= 1 {
		return nil
	}

	return s.pool.ForEach("avoidance", len(s.ids), func(i int) {
		ph, ok := s.world.Physics.Get(s.ids[i])
		if !ok {
			return
		}
		self := s.pos[i]
		var repel vmath.Vec2
		for _, j := range s.grid.Nearby(self, make([]int, 0, 16)) {
			if j == i {
				continue
			}
			d := self.Distance(s.pos[j])
			if d > 0 && d < AvoidDistance {
				away := self.Sub(s.pos[j]).Normalize()
				repel = repel.Add(away.Scale((AvoidDistance - d) / AvoidDistance))
			}
		}
		ph.Velocity = ph.Velocity.Add(avoidImpulse(repel))
	})
}

// avoidImpulse converts an accumulated repulsion into a capped velocity change.
func avoidImpulse(repel vmath.Vec2) vmath.Vec2 {
	m := repel.Magnitude()
	if m == 0 {
		return vmath.Vec2{}
	}
	proximity := min(1, m/AvoidDistance)
	effect := AvoidStrength * proximity * proximity
	return repel.Normalize().Scale(effect).ClampLength(AvoidMaxImpulse)
}
