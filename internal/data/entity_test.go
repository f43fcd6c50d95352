package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenacore/arena/internal/component"
)

func TestDefaultEntityTable(t *testing.T) {
	tbl := DefaultEntityTable()
	assert.Equal(t, 4, tbl.Count())

	enemy := tbl.Get(component.KindEnemy)
	shape, ok := enemy.ShapeComponent()
	require.True(t, ok)
	assert.Equal(t, component.ShapeRectangle, shape.Kind)
	assert.Equal(t, 20.0, shape.Size.X)
	assert.Equal(t, component.Color{R: 1, G: 0.5, B: 0, A: 1}, shape.Color)
	assert.Equal(t, 0.98, enemy.Friction)
	require.NotNil(t, enemy.Wander)
	assert.Equal(t, 120.0, enemy.Wander.SpeedMax)

	player := tbl.Get(component.KindPlayer)
	assert.False(t, player.HasShape())
	assert.Equal(t, 200.0, player.Speed)

	bullet := tbl.Get(component.KindBullet)
	assert.Equal(t, 3.0, bullet.Lifetime)
	assert.Equal(t, 600.0, bullet.Speed)
}

func TestParseEntityTableOverrides(t *testing.T) {
	src := []byte(`
entities:
  - kind: enemy
    name: Drone
    shape: circle
    width: 12
    height: 12
    mass: 2
    friction: 0.9
`)
	tbl, err := ParseEntityTable(src)
	require.NoError(t, err)

	enemy := tbl.Get(component.KindEnemy)
	assert.Equal(t, "Drone", enemy.Name)
	assert.Nil(t, enemy.Wander)
	assert.Equal(t, component.White, enemy.ColorValue())

	// untouched kinds keep defaults
	assert.Equal(t, 0.95, tbl.Get(component.KindPlayer).Friction)
}

func TestParseEntityTableErrors(t *testing.T) {
	_, err := ParseEntityTable([]byte("entities: [{kind: Enemy, shape: hexagon}]"))
	assert.ErrorContains(t, err, "unknown shape")

	_, err = ParseEntityTable([]byte("entities: [{kind: Enemy, color: [1, 1]}]"))
	assert.ErrorContains(t, err, "4 channels")

	_, err = ParseEntityTable([]byte("entities: {"))
	assert.ErrorContains(t, err, "parse entity_list")
}

func TestLoadEntityTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entity_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities:\n  - kind: Bullet\n    shape: circle\n    width: 4\n    height: 4\n    speed: 900\n    lifetime: 1\n"), 0o644))

	tbl, err := LoadEntityTable(path)
	require.NoError(t, err)
	assert.Equal(t, 900.0, tbl.Get(component.KindBullet).Speed)

	_, err = LoadEntityTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read entity_list")
}
