package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Fallbacks used when a script is missing, fails, or returns junk.
const (
	DefaultSpawnInterval = 0.4
	DefaultFireCooldown  = 0.25
)

// DefaultWander is the built-in wander re-decision range.
var DefaultWander = WanderTuning{IntervalMin: 0.5, IntervalMax: 2.0, SpeedMin: 30, SpeedMax: 120}

// Engine wraps a single gopher-lua VM holding the tuning scripts.
// Single-goroutine access only; scripts are read at setup, never per batch.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir and its
// optional ai/ subdirectory. A missing directory is not an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "ai")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// WanderTuning is the wander AI re-decision range.
type WanderTuning struct {
	IntervalMin float64
	IntervalMax float64
	SpeedMin    float64
	SpeedMax    float64
}

func (w WanderTuning) valid() bool {
	return w.IntervalMin > 0 && w.IntervalMax >= w.IntervalMin &&
		w.SpeedMin >= 0 && w.SpeedMax >= w.SpeedMin
}

// GetWanderTuning calls Lua get_wander_tuning(). ok is false unless the script
// defines it and returns a usable range; callers then fall back to the entity
// templates.
func (e *Engine) GetWanderTuning() (w WanderTuning, ok bool) {
	fn := e.vm.GetGlobal("get_wander_tuning")
	if fn == lua.LNil {
		return DefaultWander, false
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		e.log.Error("lua get_wander_tuning error", zap.Error(err))
		return DefaultWander, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, isTable := result.(*lua.LTable)
	if !isTable {
		e.log.Error("lua get_wander_tuning returned non-table")
		return DefaultWander, false
	}

	w = WanderTuning{
		IntervalMin: lNum(rt, "interval_min"),
		IntervalMax: lNum(rt, "interval_max"),
		SpeedMin:    lNum(rt, "speed_min"),
		SpeedMax:    lNum(rt, "speed_max"),
	}
	if !w.valid() {
		e.log.Warn("lua wander tuning out of range, using defaults",
			zap.Float64("interval_min", w.IntervalMin),
			zap.Float64("interval_max", w.IntervalMax),
			zap.Float64("speed_min", w.SpeedMin),
			zap.Float64("speed_max", w.SpeedMax),
		)
		return DefaultWander, false
	}
	return w, true
}

// GetSpawnInterval calls Lua get_spawn_interval(), in seconds.
func (e *Engine) GetSpawnInterval() float64 {
	return e.callPositiveFunc("get_spawn_interval", DefaultSpawnInterval)
}

// GetFireCooldown calls Lua get_fire_cooldown(), in seconds.
func (e *Engine) GetFireCooldown() float64 {
	return e.callPositiveFunc("get_fire_cooldown", DefaultFireCooldown)
}

// lNum reads a number field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// callPositiveFunc calls a no-arg Lua function returning a number and falls
// back to def when it is absent, fails, or is not positive.
func (e *Engine) callPositiveFunc(name string, def float64) float64 {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return def
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return def
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok || n <= 0 {
		e.log.Warn("lua returned invalid value", zap.String("func", name), zap.String("value", result.String()))
		return def
	}
	return float64(n)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
