package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/world"
)

// SpawnerSystem adds a random enemy every interval seconds while the game is
// running. The accumulated time lives in world.State.SpawnTimer so it
// survives save and load. Phase 5 (Spawn).
type SpawnerSystem struct {
	world    *world.State
	interval float64
	log      *zap.Logger
}

func NewSpawnerSystem(ws *world.State, interval float64, log *zap.Logger) *SpawnerSystem {
	return &SpawnerSystem{world: ws, interval: interval, log: log}
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnerSystem) Update(dt time.Duration) {
	if s.world.GameOver() {
		return
	}
	s.world.SpawnTimer += dt.Seconds()
	if s.world.SpawnTimer > s.interval {
		id := s.world.SpawnRandomEnemy()
		s.world.SpawnTimer = 0
		s.log.Debug("enemy spawned", zap.Uint64("entity", uint64(id)))
	}
}
