package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/event"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/dispatch"
	"github.com/arenacore/arena/internal/persist"
	"github.com/arenacore/arena/internal/scripting"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

// Tuning holds the gameplay numbers the systems are built with. Zero fields
// take their defaults in NewSimulation.
type Tuning struct {
	PlayerSpeed   float64
	BulletSpeed   float64
	FireCooldown  float64
	SpawnInterval float64
}

func (t Tuning) withDefaults(ws *world.State) Tuning {
	if t.PlayerSpeed <= 0 {
		t.PlayerSpeed = ws.Templates().Get(component.KindPlayer).Speed
	}
	if t.BulletSpeed <= 0 {
		t.BulletSpeed = ws.Templates().Get(component.KindBullet).Speed
	}
	if t.FireCooldown <= 0 {
		t.FireCooldown = scripting.DefaultFireCooldown
	}
	if t.SpawnInterval <= 0 {
		t.SpawnInterval = scripting.DefaultSpawnInterval
	}
	return t
}

// Simulation wires the per-frame systems around one world.State and exposes
// the frame entry points used by the frame driver and the HUD.
type Simulation struct {
	state  *world.State
	pool   *dispatch.Pool
	bus    *event.Bus
	input  Input
	tuning Tuning
	log    *zap.Logger

	runner    *coresys.Runner
	inputSys  *InputSystem
	behavior  *BehaviorSystem
	motion    *MotionSystem
	boundary  *BoundarySystem
	avoidance *AvoidanceSystem
	collision *CollisionSystem
	shooting  *ShootingSystem
	cleanup   *CleanupSystem
	autosave  *AutosaveSystem

	saveRepo     persist.SaveRepo
	saveInterval time.Duration
}

// NewSimulation builds the system graph for ws. input and bus may be nil.
func NewSimulation(ws *world.State, pool *dispatch.Pool, bus *event.Bus, input Input, tuning Tuning, log *zap.Logger) *Simulation {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Simulation{pool: pool, bus: bus, input: input, tuning: tuning, log: log}
	s.Load(ws)
	return s
}

// Load replaces the simulated state and rebuilds every system around it.
// Event subscriptions on the bus are kept.
func (s *Simulation) Load(ws *world.State) {
	s.state = ws
	t := s.tuning.withDefaults(ws)

	s.inputSys = NewInputSystem(ws, s.input, t.PlayerSpeed)
	s.behavior = NewBehaviorSystem(ws)
	s.motion = NewMotionSystem(ws, s.pool)
	s.boundary = NewBoundarySystem(ws, s.pool)
	s.avoidance = NewAvoidanceSystem(ws, s.pool)
	s.collision = NewCollisionSystem(ws, s.bus, s.log)
	s.shooting = NewShootingSystem(ws, s.input, t.FireCooldown, t.BulletSpeed)
	s.cleanup = NewCleanupSystem(ws.ECS)

	r := coresys.NewRunner()
	if s.bus != nil {
		r.Register(NewEventDispatchSystem(s.bus))
	}
	r.Register(s.inputSys)
	r.Register(s.behavior)
	r.Register(s.motion)
	r.Register(s.boundary)
	r.Register(s.avoidance)
	r.Register(s.collision)
	r.Register(s.shooting)
	r.Register(NewSpawnerSystem(ws, t.SpawnInterval, s.log))
	r.Register(s.cleanup)
	s.autosave = nil
	if s.saveRepo != nil {
		s.autosave = NewAutosaveSystem(ws, s.saveRepo, s.bus, s.log, s.saveInterval)
		r.Register(s.autosave)
	}
	s.runner = r
}

// EnableAutosave writes the game to repo every interval. It survives Load.
func (s *Simulation) EnableAutosave(repo persist.SaveRepo, interval time.Duration) {
	s.saveRepo = repo
	s.saveInterval = interval
	if s.autosave != nil {
		s.autosave.repo, s.autosave.interval = repo, interval
		return
	}
	s.autosave = NewAutosaveSystem(s.state, repo, s.bus, s.log, interval)
	s.runner.Register(s.autosave)
}

// Autosave returns the autosave system, or nil when autosave is off.
func (s *Simulation) Autosave() *AutosaveSystem { return s.autosave }

func (s *Simulation) State() *world.State       { return s.state }
func (s *Simulation) Runner() *coresys.Runner   { return s.runner }
func (s *Simulation) Behavior() *BehaviorSystem { return s.behavior }

// Step runs one full frame of dt.
func (s *Simulation) Step(dt time.Duration) {
	s.runner.Tick(dt)
}

// SetWorldSize follows the drawable size reported by the renderer.
func (s *Simulation) SetWorldSize(width, height float64) {
	s.state.SetSize(width, height)
}

// ApplyPlayerInput sets player velocity from held keys and clamps the player.
func (s *Simulation) ApplyPlayerInput() {
	s.inputSys.Update(0)
}

// IntegratePhysics moves Physics entities by dt seconds, then reflects and
// clamps them against the world bounds.
func (s *Simulation) IntegratePhysics(dt float64) []*dispatch.BatchError {
	faults := s.motion.Integrate(dt)
	return append(faults, s.boundary.Resolve()...)
}

// ResolveBounds runs only the boundary pass.
func (s *Simulation) ResolveBounds() []*dispatch.BatchError {
	return s.boundary.Resolve()
}

// ApplyAvoidance runs the AI avoidance pass.
func (s *Simulation) ApplyAvoidance() []*dispatch.BatchError {
	return s.avoidance.Apply()
}

// ResolveCollisions runs damage, scoring and separation.
func (s *Simulation) ResolveCollisions() {
	s.collision.Resolve()
}

// AdvanceProjectilesAndShooting moves live projectiles by dt seconds, prunes
// expired ones, and fires if the input asks for it.
func (s *Simulation) AdvanceProjectilesAndShooting(dt float64) {
	s.behavior.AdvanceKind(component.KindBullet, dt)
	s.shooting.Advance(dt)
}

// Flush removes entities destroyed during this frame.
func (s *Simulation) Flush() {
	s.cleanup.Update(0)
}

func (s *Simulation) Score() int              { return s.state.Score() }
func (s *Simulation) Lives() int              { return s.state.Lives() }
func (s *Simulation) GameOver() bool          { return s.state.GameOver() }
func (s *Simulation) AimPosition() vmath.Vec2 { return s.shooting.AimPosition() }
func (s *Simulation) IsAiming() bool          { return s.shooting.IsAiming() }
