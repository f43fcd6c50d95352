// Package world owns the live simulation state: the entity store, its
// capability stores, score and lives, timers, and the seeded RNG.
// Accessed only from the frame goroutine, except for the read-mostly batch
// passes documented in internal/system.
package world

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	"github.com/arenacore/arena/internal/data"
	"github.com/arenacore/arena/internal/vmath"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultLives  = 3
)

// RespawnPoint is where the player reappears after being hit.
var RespawnPoint = vmath.V(400, 300)

// Options configures a new State.
type Options struct {
	Width, Height float64
	Seed          int64 // 0 picks a time-based seed
	Lives         int   // 0 uses DefaultLives
	Templates     *data.EntityTable
	Wander        *data.WanderTemplate // overrides the enemy template range
}

// State is one running game.
type State struct {
	RunID uuid.UUID

	ECS         *ecs.World
	Transforms  *ecs.Store[component.Transform]
	Physics     *ecs.Store[component.Physics]
	Shapes      *ecs.Store[component.Shape]
	Wanders     *ecs.Store[component.Wander]
	Projectiles *ecs.Store[component.Projectile]

	// SpawnTimer is seconds since the last enemy spawn.
	SpawnTimer float64
	// ShotTimer is seconds since the last shot.
	ShotTimer float64

	width, height float64
	score, lives  int
	seed          int64
	rng           *rand.Rand
	templates     *data.EntityTable
	wander        data.WanderTemplate
	log           *zap.Logger
}

// New creates an empty State. Nothing is spawned; see Populate.
func New(opts Options, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Lives <= 0 {
		opts.Lives = DefaultLives
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Templates == nil {
		opts.Templates = data.DefaultEntityTable()
	}

	w := ecs.NewWorld()
	s := &State{
		RunID:       uuid.New(),
		ECS:         w,
		Transforms:  ecs.RegisterStore[component.Transform](w),
		Physics:     ecs.RegisterStore[component.Physics](w),
		Shapes:      ecs.RegisterStore[component.Shape](w),
		Wanders:     ecs.RegisterStore[component.Wander](w),
		Projectiles: ecs.RegisterStore[component.Projectile](w),
		width:       opts.Width,
		height:      opts.Height,
		lives:       opts.Lives,
		seed:        opts.Seed,
		rng:         rand.New(rand.NewSource(opts.Seed)),
		templates:   opts.Templates,
		log:         log,
	}

	switch {
	case opts.Wander != nil:
		s.wander = *opts.Wander
	case opts.Templates.Get(component.KindEnemy).Wander != nil:
		s.wander = *opts.Templates.Get(component.KindEnemy).Wander
	default:
		s.wander = data.WanderTemplate{IntervalMin: 0.5, IntervalMax: 2.0, SpeedMin: 30, SpeedMax: 120}
	}

	log.Debug("world created",
		zap.String("run", s.RunID.String()),
		zap.Int64("seed", s.seed),
		zap.Float64("width", s.width),
		zap.Float64("height", s.height),
	)
	return s
}

func (s *State) Log() *zap.Logger                 { return s.log }
func (s *State) Seed() int64                      { return s.seed }
func (s *State) Rand() *rand.Rand                 { return s.rng }
func (s *State) Templates() *data.EntityTable     { return s.templates }
func (s *State) WanderRange() data.WanderTemplate { return s.wander }

// Size returns the world extent.
func (s *State) Size() vmath.Vec2 {
	return vmath.V(s.width, s.height)
}

// SetSize updates the world extent. Non-positive values are ignored.
func (s *State) SetSize(width, height float64) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

func (s *State) Score() int     { return s.score }
func (s *State) Lives() int     { return s.lives }
func (s *State) GameOver() bool { return s.lives <= 0 }

func (s *State) SetScore(n int) { s.score = max(0, n) }
func (s *State) SetLives(n int) { s.lives = max(0, n) }
func (s *State) AddScore(n int) { s.SetScore(s.score + n) }

// SetShotTimer sets seconds since the last shot, clamped at zero.
func (s *State) SetShotTimer(v float64) { s.ShotTimer = max(0, v) }

// LoseLife takes one life and returns what is left.
func (s *State) LoseLife() int {
	s.SetLives(s.lives - 1)
	return s.lives
}

// FreezeAll deactivates every entity. They stay in the store.
func (s *State) FreezeAll() {
	s.ECS.SetAllActive(false)
}

// Kind returns the behaviour tag of id.
func (s *State) Kind(id ecs.EntityID) (component.Kind, bool) {
	e, ok := s.ECS.Entity(id)
	if !ok {
		return 0, false
	}
	return e.Tag, true
}

// Player returns the first live player entity.
func (s *State) Player() (ecs.EntityID, bool) {
	ids := s.ECS.FindByTag(component.KindPlayer)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// EntitiesOfKind returns live entities of kind in creation order.
func (s *State) EntitiesOfKind(kind component.Kind) []ecs.EntityID {
	return s.ECS.FindByTag(kind)
}

// Destroy queues id for removal at the end of the frame. The entity stops
// being Alive immediately.
func (s *State) Destroy(id ecs.EntityID) {
	s.ECS.MarkForDestruction(id)
}

// Body returns the position and optional shape used for overlap tests.
func (s *State) Body(id ecs.EntityID) (pos vmath.Vec2, shape *component.Shape, ok bool) {
	t, ok := s.Transforms.Get(id)
	if !ok {
		return vmath.Vec2{}, nil, false
	}
	shape, _ = s.Shapes.Get(id)
	return t.Position, shape, true
}
