package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newEngine(t *testing.T, scripts map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for name, src := range scripts {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestDefaultsWithoutScripts(t *testing.T) {
	e := newEngine(t, nil)
	w, ok := e.GetWanderTuning()
	assert.False(t, ok)
	assert.Equal(t, DefaultWander, w)
	assert.Equal(t, DefaultSpawnInterval, e.GetSpawnInterval())
	assert.Equal(t, DefaultFireCooldown, e.GetFireCooldown())
}

func TestMissingDirIsNotAnError(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zaptest.NewLogger(t))
	require.NoError(t, err)
	e.Close()
}

func TestScriptOverrides(t *testing.T) {
	e := newEngine(t, map[string]string{
		"tuning.lua": `
function get_spawn_interval() return 1.5 end
function get_fire_cooldown() return 0.1 end
`,
		"ai/wander.lua": `
function get_wander_tuning()
  return { interval_min = 1, interval_max = 3, speed_min = 10, speed_max = 20 }
end
`,
	})
	assert.Equal(t, 1.5, e.GetSpawnInterval())
	assert.Equal(t, 0.1, e.GetFireCooldown())
	w, ok := e.GetWanderTuning()
	assert.True(t, ok)
	assert.Equal(t, WanderTuning{IntervalMin: 1, IntervalMax: 3, SpeedMin: 10, SpeedMax: 20}, w)
}

func TestInvalidValuesFallBack(t *testing.T) {
	e := newEngine(t, map[string]string{
		"bad.lua": `
function get_spawn_interval() return -1 end
function get_fire_cooldown() error("broken") end
function get_wander_tuning() return { interval_min = 2, interval_max = 1 } end
`,
	})
	assert.Equal(t, DefaultSpawnInterval, e.GetSpawnInterval())
	assert.Equal(t, DefaultFireCooldown, e.GetFireCooldown())
	w, ok := e.GetWanderTuning()
	assert.False(t, ok, "unusable range defers to templates")
	assert.Equal(t, DefaultWander, w)
}

func TestSyntaxErrorFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644))
	_, err := NewEngine(dir, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "load scripts")
}

func TestShippedTuningScript(t *testing.T) {
	e, err := NewEngine(filepath.Join("..", "..", "scripts"), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	_, ok := e.GetWanderTuning()
	assert.False(t, ok, "shipped script leaves wander to entity_list.yaml")
	assert.Equal(t, DefaultSpawnInterval, e.GetSpawnInterval())
}
