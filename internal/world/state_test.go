package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/data"
	"github.com/arenacore/arena/internal/vmath"
)

func newState(t *testing.T) *State {
	t.Helper()
	return New(Options{Width: 800, Height: 600, Seed: 42}, zaptest.NewLogger(t))
}

func TestNewDefaults(t *testing.T) {
	s := New(Options{}, nil)
	assert.Equal(t, vmath.V(DefaultWidth, DefaultHeight), s.Size())
	assert.Equal(t, DefaultLives, s.Lives())
	assert.NotZero(t, s.Seed())
	assert.NotEqual(t, s.RunID, New(Options{}, nil).RunID)
	assert.Equal(t, 120.0, s.WanderRange().SpeedMax)
}

func TestScoreAndLives(t *testing.T) {
	s := newState(t)
	s.AddScore(2)
	assert.Equal(t, 2, s.Score())
	s.SetScore(-5)
	assert.Equal(t, 0, s.Score())

	assert.Equal(t, 2, s.LoseLife())
	assert.False(t, s.GameOver())
	s.SetLives(0)
	assert.True(t, s.GameOver())
	assert.Equal(t, 0, s.LoseLife())

	s.SetShotTimer(-1)
	assert.Equal(t, 0.0, s.ShotTimer)
}

func TestSetSizeIgnoresNonPositive(t *testing.T) {
	s := newState(t)
	s.SetSize(0, 300)
	assert.Equal(t, vmath.V(800, 300), s.Size())
}

func TestPopulate(t *testing.T) {
	s := newState(t)
	s.Populate(3, 5)

	assert.Equal(t, 9, s.ECS.Len())
	pid, ok := s.Player()
	require.True(t, ok)
	pt, _ := s.Transforms.Get(pid)
	assert.Equal(t, vmath.V(400, 300), pt.Position)
	assert.False(t, s.Shapes.Has(pid))
	pp, _ := s.Physics.Get(pid)
	assert.Equal(t, 0.95, pp.Friction)

	enemies := s.EntitiesOfKind(component.KindEnemy)
	require.Len(t, enemies, 3)
	for _, id := range enemies {
		w, ok := s.Wanders.Get(id)
		require.True(t, ok)
		assert.GreaterOrEqual(t, w.TimeUntilChange, 0.5)
		assert.LessOrEqual(t, w.TimeUntilChange, 2.0)
		ph, _ := s.Physics.Get(id)
		assert.LessOrEqual(t, ph.Velocity.X, 50.0)
		assert.GreaterOrEqual(t, ph.Velocity.X, -50.0)
		sh, _ := s.Shapes.Get(id)
		assert.Equal(t, component.ShapeRectangle, sh.Kind)
	}
	assert.Len(t, s.EntitiesOfKind(component.KindDecoration), 5)
}

func TestSameSeedSameScene(t *testing.T) {
	a := New(Options{Seed: 7}, nil)
	b := New(Options{Seed: 7}, nil)
	a.Populate(4, 2)
	b.Populate(4, 2)
	for i := 0; i < a.Transforms.Len(); i++ {
		_, ta := a.Transforms.At(i)
		_, tb := b.Transforms.At(i)
		assert.Equal(t, ta.Position, tb.Position)
	}
}

func TestSpawnBulletDefaultsLifetime(t *testing.T) {
	s := newState(t)
	id := s.SpawnBullet(vmath.V(1, 2), vmath.V(0, -600), 0)
	p, ok := s.Projectiles.Get(id)
	require.True(t, ok)
	assert.Equal(t, 3.0, p.Lifetime)
	sh, _ := s.Shapes.Get(id)
	assert.Equal(t, component.Color{R: 1, G: 1, B: 0, A: 1}, sh.Color)
	assert.False(t, s.Physics.Has(id))
}

func TestWanderOverride(t *testing.T) {
	s := New(Options{Seed: 1, Wander: &data.WanderTemplate{IntervalMin: 1, IntervalMax: 1, SpeedMin: 5, SpeedMax: 5}}, nil)
	id := s.SpawnEnemy(vmath.Vec2{}, vmath.Vec2{})
	w, _ := s.Wanders.Get(id)
	assert.Equal(t, 1.0, w.TimeUntilChange)
	v := s.RollWanderVelocity(w)
	assert.InDelta(t, 5.0, v.Magnitude(), 1e-9)
}

func TestDestroyAndFreeze(t *testing.T) {
	s := newState(t)
	s.Populate(2, 0)
	enemies := s.EntitiesOfKind(component.KindEnemy)
	s.Destroy(enemies[0])
	assert.Len(t, s.EntitiesOfKind(component.KindEnemy), 1)

	s.FreezeAll()
	for _, e := range s.ECS.Entities() {
		assert.False(t, e.Active)
	}
	s.ECS.FlushDestroyQueue()
	assert.False(t, s.Transforms.Has(enemies[0]))
	assert.Equal(t, 2, s.ECS.Len())
}

func TestGridNearby(t *testing.T) {
	g := NewGrid(80)
	g.Insert(2, vmath.V(10, 10))
	g.Insert(0, vmath.V(85, 10))
	g.Insert(1, vmath.V(500, 500))
	g.Insert(3, vmath.V(-10, -10))
	assert.Equal(t, []int{0, 2, 3}, g.Nearby(vmath.V(20, 20), nil))

	g.Reset()
	assert.Empty(t, g.Nearby(vmath.V(20, 20), nil))
}
