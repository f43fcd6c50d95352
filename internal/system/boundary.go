package system

import (
	"time"

	"github.com/arenacore/arena/internal/component"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/dispatch"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// DefaultExtent is the bounding size assumed for entities without a Shape.
const DefaultExtent = 15.0

// BoundarySystem bounces Physics entities off the world edges and clamps them
// inside. An axis velocity flips when the entity sits on or past either edge
// of that axis. Batched; each index writes only its own entity.
// Phase 2 (Physics).
type BoundarySystem struct {
	world *world.State
	pool  *dispatch.Pool
}

func NewBoundarySystem(ws *world.State, pool *dispatch.Pool) *BoundarySystem {
	return &BoundarySystem{world: ws, pool: pool}
}

func (s *BoundarySystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *BoundarySystem) Update(_ time.Duration) {
	s.Resolve()
}

// Resolve applies reflection and clamping to every active Physics entity.
func (s *BoundarySystem) Resolve() []*dispatch.BatchError {
	phys := s.world.Physics
	size := s.world.Size()
	return s.pool.ForEach("boundary", phys.Len(), func(i int) {
		id, ph := phys.At(i)
		if !s.world.ECS.Active(id) {
			return
		}
		tf, ok := s.world.Transforms.Get(id)
		if !ok {
			return
		}
		shape, _ := s.world.Shapes.Get(id)
		limit := size.Sub(Extent(shape))
		tf.Position.X, ph.Velocity.X = bounce(tf.Position.X, ph.Velocity.X, limit.X)
		tf.Position.Y, ph.Velocity.Y = bounce(tf.Position.Y, ph.Velocity.Y, limit.Y)
	})
}

// bounce reflects v when pos is on or beyond [0, limit] and clamps pos.
func bounce(pos, v, limit float64) (float64, float64) {
	if pos <= 0 || pos >= limit {
		v = -v
	}
	if pos < 0 {
		pos = 0
	}
	if pos > limit {
		pos = limit
	}
	return pos, v
}

// Extent is the bounding size of an entity with the given shape, which may be nil.
func Extent(shape *component.Shape) vmath.Vec2 {
	if shape != nil {
		return shape.Size
	}
	return vmath.V(DefaultExtent, DefaultExtent)
}
