package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/collision"
	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	"github.com/arenacore/arena/internal/core/event"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// Separation tuning.
const (
	DesiredSeparation    = 8.0
	SeparationVelocity   = 40.0
	SeparationMaxImpulse = 30.0
)

// MinSeparationShift is used when overlapping entities are already at or
// beyond DesiredSeparation, so touching pairs still drift apart.
const MinSeparationShift = 2.0

// CollisionSystem resolves, in order: player damage, projectile hits, and
// enemy-enemy separation. Runs serially on the frame goroutine.
// Phase 4 (Collision).
type CollisionSystem struct {
	world *world.State
	bus   *event.Bus
	log   *zap.Logger
}

func NewCollisionSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *CollisionSystem {
	return &CollisionSystem{world: ws, bus: bus, log: log}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ time.Duration) {
	s.Resolve()
}

// Resolve runs all three collision categories once.
func (s *CollisionSystem) Resolve() {
	if s.playerDamage() {
		return
	}
	s.projectileHits()
	s.separate()
}

func (s *CollisionSystem) body(id ecs.EntityID) (collision.Body, bool) {
	pos, shape, ok := s.world.Body(id)
	return collision.Body{Position: pos, Shape: shape}, ok
}

func (s *CollisionSystem) live(kind component.Kind) []ecs.EntityID {
	ids := s.world.EntitiesOfKind(kind)
	out := ids[:0]
	for _, id := range ids {
		if s.world.ECS.Active(id) && s.world.Transforms.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// playerDamage handles at most one enemy touch per frame. Returns true when
// the hit ended the game.
func (s *CollisionSystem) playerDamage() bool {
	pid, ok := s.world.Player()
	if !ok || !s.world.ECS.Active(pid) {
		return false
	}
	player, ok := s.body(pid)
	if !ok {
		return false
	}
	for _, eid := range s.live(component.KindEnemy) {
		enemy, _ := s.body(eid)
		if !collision.Overlap(player, enemy) {
			continue
		}
		left := s.world.LoseLife()
		if tf, ok := s.world.Transforms.Get(pid); ok {
			tf.Position = world.RespawnPoint
		}
		emit(s.bus, event.PlayerHit{Player: pid, Enemy: eid, LivesLeft: left})
		s.log.Debug("player hit", zap.Int("lives", left))

		if s.world.GameOver() {
			s.world.FreezeAll()
			emit(s.bus, event.GameOver{Score: s.world.Score()})
			s.log.Info("game over", zap.Int("score", s.world.Score()))
			return true
		}
		return false
	}
	return false
}

// projectileHits destroys each bullet together with the first live enemy it
// overlaps. A destroyed enemy stops being Alive at once, so no second bullet
// can score off it this frame.
func (s *CollisionSystem) projectileHits() {
	enemies := s.live(component.KindEnemy)
	for _, bid := range s.live(component.KindBullet) {
		bullet, _ := s.body(bid)
		for _, eid := range enemies {
			if !s.world.ECS.Alive(eid) {
				continue
			}
			enemy, _ := s.body(eid)
			if !collision.Overlap(bullet, enemy) {
				continue
			}
			s.world.Destroy(bid)
			s.world.Destroy(eid)
			s.world.AddScore(1)
			emit(s.bus, event.EnemyKilled{Bullet: bid, Enemy: eid, Score: s.world.Score()})
			break
		}
	}
}

// separate pushes every overlapping pair of wandering entities apart by a
// symmetric position shift and velocity impulse.
func (s *CollisionSystem) separate() {
	ids := make([]ecs.EntityID, 0, s.world.Wanders.Len())
	s.world.Wanders.Each(func(id ecs.EntityID, _ *component.Wander) {
		if s.world.ECS.Active(id) && s.world.Transforms.Has(id) {
			ids = append(ids, id)
		}
	})
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			s.separatePair(ids[i], ids[j])
		}
	}
}

func (s *CollisionSystem) separatePair(a, b ecs.EntityID) {
	ba, _ := s.body(a)
	bb, _ := s.body(b)
	if !collision.Overlap(ba, bb) {
		return
	}
	diff := ba.Center().Sub(bb.Center())
	dist := diff.Magnitude()
	if dist == 0 {
		diff = vmath.V(0.01, 0.01)
		dist = diff.Magnitude()
	}
	overlap := max(0, DesiredSeparation-dist)
	if overlap <= 0 {
		overlap = MinSeparationShift
	}
	push := diff.Normalize()

	shift := push.Scale(overlap / 2)
	ta, _ := s.world.Transforms.Get(a)
	tb, _ := s.world.Transforms.Get(b)
	ta.Position = ta.Position.Add(shift)
	tb.Position = tb.Position.Sub(shift)

	pa, okA := s.world.Physics.Get(a)
	pb, okB := s.world.Physics.Get(b)
	if okA && okB {
		dv := push.Scale(SeparationVelocity * overlap / DesiredSeparation).ClampLength(SeparationMaxImpulse)
		pa.Velocity = pa.Velocity.Add(dv)
		pb.Velocity = pb.Velocity.Sub(dv)
	}
}

// emit queues ev for delivery next frame. A nil bus drops it.
func emit[T any](bus *event.Bus, ev T) {
	if bus != nil {
		event.Emit(bus, ev)
	}
}
