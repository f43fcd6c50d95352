package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/core/event"
	coresys "github.com/arenacore/arena/internal/core/system"
	"github.com/arenacore/arena/internal/persist"
	"github.com/arenacore/arena/internal/save"
	"github.com/arenacore/arena/internal/world"
)

// AutosaveSystem periodically writes the running game to the autosave slot.
// Nothing is written once the game is over. Phase 6 (Cleanup), after the
// destroy queue is flushed.
type AutosaveSystem struct {
	world    *world.State
	repo     persist.SaveRepo
	bus      *event.Bus
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
}

func NewAutosaveSystem(ws *world.State, repo persist.SaveRepo, bus *event.Bus, log *zap.Logger, interval time.Duration) *AutosaveSystem {
	return &AutosaveSystem{
		world:    ws,
		repo:     repo,
		bus:      bus,
		log:      log,
		interval: interval,
	}
}

func (s *AutosaveSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *AutosaveSystem) Update(dt time.Duration) {
	if s.interval <= 0 || s.world.GameOver() {
		return
	}
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.SaveNow()
}

// SaveNow writes the autosave slot immediately. Used on shutdown.
func (s *AutosaveSystem) SaveNow() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap := save.Capture(s.world)
	err := s.repo.Write(ctx, persist.AutosaveName, snap)
	if err != nil {
		s.log.Error("autosave failed", zap.Error(err))
	} else {
		s.log.Debug("autosaved",
			zap.Int("entities", len(snap.Entities)),
			zap.Int("score", snap.Score),
		)
	}
	emit(s.bus, event.Saved{Name: persist.AutosaveName, Auto: true, Err: err})
	return err
}
