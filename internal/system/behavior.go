package system

import (
	"time"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/world"
)

// ProjectileMargin is how far outside the world a projectile may travel
// before it is removed.
const ProjectileMargin = 50.0

// wanderNudge scales the rolled velocity into a one-off position step for
// wandering entities that have no Physics.
const wanderNudge = 0.1

// BehaviorFunc advances one entity of a given kind by dt seconds.
type BehaviorFunc func(id ecs.EntityID, dt float64)

// BehaviorSystem runs the per-kind behaviour of every active entity, looked
// up by its kind tag. Kinds without an entry have no behaviour.
// Phase 1 (Behavior).
type BehaviorSystem struct {
	world     *world.State
	behaviors map[component.Kind]BehaviorFunc
}

func NewBehaviorSystem(ws *world.State) *BehaviorSystem {
	s := &BehaviorSystem{world: ws}
	s.behaviors = map[component.Kind]BehaviorFunc{
		component.KindEnemy:  s.wander,
		component.KindBullet: s.projectile,
	}
	return s
}

func (s *BehaviorSystem) Phase() coresys.Phase { return coresys.PhaseBehavior }

// Handle replaces the behaviour for kind. A nil fn removes it.
func (s *BehaviorSystem) Handle(kind component.Kind, fn BehaviorFunc) {
	if fn == nil {
		delete(s.behaviors, kind)
		return
	}
	s.behaviors[kind] = fn
}

func (s *BehaviorSystem) Update(dt time.Duration) {
	s.Advance(dt.Seconds())
}

// Advance runs one behaviour step of dt seconds.
func (s *BehaviorSystem) Advance(dt float64) {
	for _, e := range s.world.ECS.Entities() {
		if !e.Active || !s.world.ECS.Alive(e.ID) {
			continue
		}
		if fn, ok := s.behaviors[e.Tag]; ok {
			fn(e.ID, dt)
		}
	}
}

// AdvanceKind runs one behaviour step only for entities of kind.
func (s *BehaviorSystem) AdvanceKind(kind component.Kind, dt float64) {
	fn, ok := s.behaviors[kind]
	if !ok {
		return
	}
	for _, id := range s.world.EntitiesOfKind(kind) {
		if s.world.ECS.Active(id) {
			fn(id, dt)
		}
	}
}

// wander re-rolls heading and speed whenever the entity's timer runs out.
func (s *BehaviorSystem) wander(id ecs.EntityID, dt float64) {
	w, ok := s.world.Wanders.Get(id)
	if !ok {
		return
	}
	w.TimeUntilChange -= dt
	if w.TimeUntilChange > 0 {
		return
	}
	v := s.world.RollWanderVelocity(w)
	if ph, ok := s.world.Physics.Get(id); ok {
		ph.Velocity = v
	} else if tf, ok := s.world.Transforms.Get(id); ok {
		tf.Position = tf.Position.Add(v.Scale(wanderNudge))
	}
	s.world.ScheduleWander(w)
}

// projectile moves the entity along its projectile velocity and removes it
// once its lifetime is spent or it leaves the padded world rectangle.
func (s *BehaviorSystem) projectile(id ecs.EntityID, dt float64) {
	p, ok := s.world.Projectiles.Get(id)
	if !ok {
		return
	}
	tf, ok := s.world.Transforms.Get(id)
	if !ok {
		return
	}
	tf.Position = tf.Position.Add(p.Velocity.Scale(dt))
	p.Lifetime -= dt

	size := s.world.Size()
	out := tf.Position.X < -ProjectileMargin || tf.Position.Y < -ProjectileMargin ||
		tf.Position.X > size.X+ProjectileMargin || tf.Position.Y > size.Y+ProjectileMargin
	if p.Lifetime <= 0 || out {
		s.world.Destroy(id)
	}
}
