package save

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

func scene(t *testing.T) *world.State {
	t.Helper()
	ws := world.New(world.Options{Seed: 1234}, zaptest.NewLogger(t))
	ws.Populate(3, 5)
	ws.SpawnBullet(vmath.V(10, 20), vmath.V(0, -600), 1.5)
	ws.SetScore(7)
	ws.SetLives(2)
	ws.SpawnTimer = 0.2
	ws.ShotTimer = 0.1
	return ws
}

type snapshotEntity struct {
	kind component.Kind
	pos  vmath.Vec2
	vel  vmath.Vec2
}

func entities(ws *world.State) []snapshotEntity {
	var out []snapshotEntity
	for _, e := range ws.ECS.Entities() {
		tf, ok := ws.Transforms.Get(e.ID)
		if !ok {
			continue
		}
		se := snapshotEntity{kind: e.Tag, pos: tf.Position}
		if ph, ok := ws.Physics.Get(e.ID); ok {
			se.vel = ph.Velocity
		}
		if p, ok := ws.Projectiles.Get(e.ID); ok {
			se.vel = p.Velocity
		}
		out = append(out, se)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	src := scene(t)
	data, err := Marshal(Capture(src))
	require.NoError(t, err)

	st, err := Unmarshal(data)
	require.NoError(t, err)
	dst := NewFromSave(st, world.Options{}, zaptest.NewLogger(t))

	want, got := entities(src), entities(dst)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].kind, got[i].kind, "entity %d", i)
		assert.InDelta(t, want[i].pos.X, got[i].pos.X, 1e-9)
		assert.InDelta(t, want[i].pos.Y, got[i].pos.Y, 1e-9)
		assert.InDelta(t, want[i].vel.X, got[i].vel.X, 1e-9)
		assert.InDelta(t, want[i].vel.Y, got[i].vel.Y, 1e-9)
	}
	assert.Equal(t, 7, dst.Score())
	assert.Equal(t, 2, dst.Lives())
	assert.Equal(t, 0.2, dst.SpawnTimer)
	assert.Equal(t, 0.1, dst.ShotTimer)
	assert.Equal(t, src.Seed(), dst.Seed())

	bullets := dst.EntitiesOfKind(component.KindBullet)
	require.Len(t, bullets, 1)
	p, _ := dst.Projectiles.Get(bullets[0])
	assert.Equal(t, 1.5, p.Lifetime)

	assert.Equal(t, Capture(src).Digest(), Capture(dst).Digest())
}

func TestCaptureFormat(t *testing.T) {
	ws := world.New(world.Options{Seed: 9}, nil)
	ws.SpawnEnemy(vmath.V(1, 2), vmath.V(3, 4))
	data, err := Marshal(Capture(ws))
	require.NoError(t, err)

	s := string(data)
	for _, key := range []string{`"version":1`, `"score":0`, `"lives":3`, `"spawn":0`, `"shot":0`, `"seed":9`,
		`"type":"Enemy"`, `"name":"Enemy"`, `"x":1`, `"y":2`, `"vx":3`, `"vy":4`, `"w":20`, `"h":20`,
		`"color":[1,0.5,0,1]`, `"plife":0`, `"pvx":0`, `"pvy":0`} {
		assert.True(t, strings.Contains(s, key), "missing %s in %s", key, s)
	}
}

func TestCaptureSkipsEntitiesWithoutTransform(t *testing.T) {
	ws := world.New(world.Options{Seed: 9}, nil)
	id := ws.SpawnDecoration(vmath.V(1, 1))
	ws.Transforms.Remove(id)
	ws.SpawnDecoration(vmath.V(2, 2))
	assert.Len(t, Capture(ws).Entities, 1)
}

func TestClassifyName(t *testing.T) {
	assert.Equal(t, "Enemy", ClassifyName("AIPlayer", component.KindDecoration))
	assert.Equal(t, "Player", ClassifyName("player", component.KindDecoration))
	assert.Equal(t, "Decoration", ClassifyName("Decoration", component.KindEnemy))
	assert.Equal(t, "Enemy", ClassifyName("Drone", component.KindEnemy))
	assert.Equal(t, "Decoration", ClassifyName("Star", component.KindDecoration))
}

func TestRestoreEmptySpawnsDefaultPlayer(t *testing.T) {
	for _, st := range []*State{nil, {}, {Score: 4, Lives: 2}} {
		ws := NewFromSave(st, world.Options{Width: 800, Height: 600}, nil)
		require.Equal(t, 1, ws.ECS.Len())
		pid, ok := ws.Player()
		require.True(t, ok)
		tf, _ := ws.Transforms.Get(pid)
		assert.Equal(t, vmath.V(400, 300), tf.Position)
		assert.False(t, ws.GameOver())
	}
}

func TestRestoreBulletDefaults(t *testing.T) {
	st := &State{Lives: 3, Entities: []EntityRecord{{Type: "Bullet", X: 5, Y: 5, PVX: 1}}}
	ws := NewFromSave(st, world.Options{}, nil)
	ids := ws.EntitiesOfKind(component.KindBullet)
	require.Len(t, ids, 1)
	p, _ := ws.Projectiles.Get(ids[0])
	assert.Equal(t, 3.0, p.Lifetime)
	sh, _ := ws.Shapes.Get(ids[0])
	assert.Equal(t, vmath.V(6, 6), sh.Size)
}

func TestRestoreAppliesSizeColorAndName(t *testing.T) {
	st := &State{Lives: 1, Entities: []EntityRecord{
		{Type: "AIPlayer", Name: "AIPlayer", X: 1, Y: 1, W: 30, H: 10, Color: [4]float64{0, 1, 0, 1}},
		{Type: "Mystery", Name: "", X: 2, Y: 2},
	}}
	ws := NewFromSave(st, world.Options{}, nil)
	enemies := ws.EntitiesOfKind(component.KindEnemy)
	require.Len(t, enemies, 1)
	sh, _ := ws.Shapes.Get(enemies[0])
	assert.Equal(t, vmath.V(30, 10), sh.Size)
	assert.Equal(t, component.Color{G: 1, A: 1}, sh.Color)
	e, _ := ws.ECS.Entity(enemies[0])
	assert.Equal(t, "AIPlayer", e.Name)
	assert.True(t, ws.Wanders.Has(enemies[0]))

	decos := ws.EntitiesOfKind(component.KindDecoration)
	require.Len(t, decos, 1)
	d, _ := ws.ECS.Entity(decos[0])
	assert.Equal(t, "Decoration", d.Name)
}

func TestRestoreGameOverIsFrozen(t *testing.T) {
	st := &State{Lives: 0, Entities: []EntityRecord{{Type: "Enemy", X: 1, Y: 1}}}
	ws := NewFromSave(st, world.Options{}, nil)
	assert.True(t, ws.GameOver())
	for _, e := range ws.ECS.Entities() {
		assert.False(t, e.Active)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version":2}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Unmarshal([]byte(`{"score":`))
	assert.ErrorContains(t, err, "decode save")

	st, err := Unmarshal([]byte(`{"score":3}`))
	require.NoError(t, err)
	assert.Equal(t, Version, st.Version)
}

func TestDigestChangesWithContent(t *testing.T) {
	a := &State{Score: 1}
	b := &State{Score: 2}
	assert.Len(t, a.Digest(), 16)
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.Equal(t, a.Digest(), (&State{Score: 1}).Digest())
}

func TestMarshalLeavesStateUntouched(t *testing.T) {
	s := &State{Score: 4}
	d := s.Digest()
	_, err := Marshal(s)
	require.NoError(t, err)
	assert.Zero(t, s.Version)
	assert.Nil(t, s.Entities)
	assert.Equal(t, (&State{Version: Version, Score: 4, Entities: []EntityRecord{}}).Digest(), d)
}
