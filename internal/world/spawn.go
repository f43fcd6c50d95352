package world

import (
	"math"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	"github.com/arenacore/arena/internal/vmath"
)

// spawn creates an entity of kind from its template with a Transform, and a
// Shape when the template has one.
func (s *State) spawn(kind component.Kind, pos vmath.Vec2) ecs.EntityID {
	tpl := s.templates.Get(kind)
	name := tpl.Name
	if name == "" {
		name = component.KindName(kind)
	}
	id := s.ECS.CreateEntity(name, kind)
	s.Transforms.Set(id, &component.Transform{Position: pos})
	if shape, ok := tpl.ShapeComponent(); ok {
		s.Shapes.Set(id, &shape)
	}
	return id
}

func (s *State) attachPhysics(id ecs.EntityID, kind component.Kind, vel vmath.Vec2) {
	tpl := s.templates.Get(kind)
	friction := tpl.Friction
	if friction <= 0 || friction > 1 {
		friction = 1
	}
	s.Physics.Set(id, &component.Physics{Velocity: vel, Mass: tpl.Mass, Friction: friction})
}

// SpawnPlayer creates the player at pos moving at vel.
func (s *State) SpawnPlayer(pos, vel vmath.Vec2) ecs.EntityID {
	id := s.spawn(component.KindPlayer, pos)
	s.attachPhysics(id, component.KindPlayer, vel)
	return id
}

// SpawnEnemy creates a wandering enemy with its first re-decision scheduled.
func (s *State) SpawnEnemy(pos, vel vmath.Vec2) ecs.EntityID {
	id := s.spawn(component.KindEnemy, pos)
	s.attachPhysics(id, component.KindEnemy, vel)
	w := &component.Wander{
		IntervalMin: s.wander.IntervalMin,
		IntervalMax: s.wander.IntervalMax,
		SpeedMin:    s.wander.SpeedMin,
		SpeedMax:    s.wander.SpeedMax,
	}
	s.ScheduleWander(w)
	s.Wanders.Set(id, w)
	return id
}

// SpawnBullet creates a projectile. A non-positive lifetime uses the template.
func (s *State) SpawnBullet(pos, vel vmath.Vec2, lifetime float64) ecs.EntityID {
	if lifetime <= 0 {
		lifetime = s.templates.Get(component.KindBullet).Lifetime
	}
	id := s.spawn(component.KindBullet, pos)
	s.Projectiles.Set(id, &component.Projectile{Velocity: vel, Lifetime: lifetime})
	return id
}

// SpawnDecoration creates a static decoration.
func (s *State) SpawnDecoration(pos vmath.Vec2) ecs.EntityID {
	return s.spawn(component.KindDecoration, pos)
}

// RandomPosition returns a uniform point inside the world.
func (s *State) RandomPosition() vmath.Vec2 {
	return vmath.V(s.rng.Float64()*s.width, s.rng.Float64()*s.height)
}

// SpawnRandomEnemy places an enemy anywhere in the world with a velocity of
// up to 50 units/s per axis.
func (s *State) SpawnRandomEnemy() ecs.EntityID {
	pos := s.RandomPosition()
	vel := vmath.V((s.rng.Float64()-0.5)*100, (s.rng.Float64()-0.5)*100)
	return s.SpawnEnemy(pos, vel)
}

// Populate sets up a new scene: the player at the centre, then enemies and
// decorations at random positions.
func (s *State) Populate(enemies, decorations int) {
	s.SpawnPlayer(s.Size().Scale(0.5), vmath.Vec2{})
	for i := 0; i < enemies; i++ {
		s.SpawnRandomEnemy()
	}
	for i := 0; i < decorations; i++ {
		s.SpawnDecoration(s.RandomPosition())
	}
}

// ScheduleWander draws the next re-decision delay for w.
func (s *State) ScheduleWander(w *component.Wander) {
	w.TimeUntilChange = w.IntervalMin + s.rng.Float64()*(w.IntervalMax-w.IntervalMin)
}

// RollWanderVelocity draws a uniform heading and a speed in w's range.
func (s *State) RollWanderVelocity(w *component.Wander) vmath.Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	speed := w.SpeedMin + s.rng.Float64()*(w.SpeedMax-w.SpeedMin)
	return vmath.V(math.Cos(angle)*speed, math.Sin(angle)*speed)
}
