package system

import (
	"time"

	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// CrosshairDistance is how far from the player the aim point sits.
const CrosshairDistance = 60.0

// ShootingSystem fires a bullet toward the crosshair while the fire input is
// held and the cooldown has elapsed. Bullets spawned here first move next
// frame. Phase 5 (Spawn).
type ShootingSystem struct {
	world    *world.State
	input    Input
	cooldown float64
	speed    float64
}

func NewShootingSystem(ws *world.State, input Input, cooldown, speed float64) *ShootingSystem {
	return &ShootingSystem{world: ws, input: input, cooldown: cooldown, speed: speed}
}

func (s *ShootingSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *ShootingSystem) Update(dt time.Duration) {
	s.Advance(dt.Seconds())
}

// Advance ticks the shot timer by dt seconds and fires if allowed.
func (s *ShootingSystem) Advance(dt float64) {
	s.world.ShotTimer += dt
	if s.input == nil || s.world.GameOver() {
		return
	}
	trigger := s.input.MouseHeld(MousePrimary) || s.input.MouseHeld(MouseSecondary) ||
		s.input.KeyJustPressed(KeyFire)
	if !trigger || s.world.ShotTimer < s.cooldown {
		return
	}
	pid, ok := s.world.Player()
	if !ok {
		return
	}
	tf, ok := s.world.Transforms.Get(pid)
	if !ok {
		return
	}
	s.world.ShotTimer = 0
	dir := s.AimPosition().Sub(tf.Position).Normalize()
	if dir.IsZero() {
		dir = vmath.V(0, -1)
	}
	s.world.SpawnBullet(tf.Position, dir.Scale(s.speed), 0)
}

// AimPosition is the crosshair: CrosshairDistance from the player toward the
// cursor, straight up when the cursor sits on the player. Without a player it
// is the cursor itself.
func (s *ShootingSystem) AimPosition() vmath.Vec2 {
	var cursor vmath.Vec2
	if s.input != nil {
		cursor = s.input.Cursor()
	}
	pid, ok := s.world.Player()
	if !ok {
		return cursor
	}
	tf, ok := s.world.Transforms.Get(pid)
	if !ok {
		return cursor
	}
	dir := cursor.Sub(tf.Position).Normalize()
	if dir.IsZero() {
		dir = vmath.V(0, -1)
	}
	return tf.Position.Add(dir.Scale(CrosshairDistance))
}

// IsAiming reports whether the secondary button is held.
func (s *ShootingSystem) IsAiming() bool {
	return s.input != nil && s.input.MouseHeld(MouseSecondary)
}
