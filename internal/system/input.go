package system

import (
	"time"

	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// Key is an abstract game key. Frontends map physical keys onto these.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyFire
)

// Mouse buttons.
const (
	MousePrimary   = 0
	MouseSecondary = 1
)

// Input is the polling layer the simulation reads each frame. Held state is
// level-triggered; JustPressed is true only on the frame of the press.
type Input interface {
	KeyHeld(k Key) bool
	KeyJustPressed(k Key) bool
	MouseHeld(button int) bool
	Cursor() vmath.Vec2
}

// PlayerMargin keeps the player's anchor this far inside the right and
// bottom edges.
const PlayerMargin = 20.0

// InputSystem turns held movement keys into player velocity and keeps the
// player inside the world. Phase 0 (Input).
type InputSystem struct {
	world *world.State
	input Input
	speed float64
}

func NewInputSystem(ws *world.State, input Input, speed float64) *InputSystem {
	return &InputSystem{world: ws, input: input, speed: speed}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	pid, ok := s.world.Player()
	if !ok || !s.world.ECS.Active(pid) {
		return
	}
	tf, ok := s.world.Transforms.Get(pid)
	if !ok {
		return
	}
	ph, ok := s.world.Physics.Get(pid)
	if !ok {
		return
	}

	if s.input != nil {
		var dir vmath.Vec2
		if s.input.KeyHeld(KeyUp) {
			dir.Y--
		}
		if s.input.KeyHeld(KeyDown) {
			dir.Y++
		}
		if s.input.KeyHeld(KeyLeft) {
			dir.X--
		}
		if s.input.KeyHeld(KeyRight) {
			dir.X++
		}
		if !dir.IsZero() {
			ph.Velocity = dir.Normalize().Scale(s.speed)
		}
	}

	size := s.world.Size()
	tf.Position.X = vmath.Clamp(tf.Position.X, 0, size.X-PlayerMargin)
	tf.Position.Y = vmath.Clamp(tf.Position.Y, 0, size.Y-PlayerMargin)
}
