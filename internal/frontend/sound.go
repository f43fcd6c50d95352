package frontend

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/arenacore/arena/internal/core/event"
)

const sampleRate = beep.SampleRate(44100)

// Tone is a short sine beep.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var (
	KillTone     = Tone{Freq: 880, Duration: 50 * time.Millisecond}
	HitTone      = Tone{Freq: 220, Duration: 150 * time.Millisecond}
	GameOverTone = Tone{Freq: 110, Duration: 400 * time.Millisecond}
)

// Sound plays event feedback through the speaker. A Sound whose speaker
// failed to open stays silent.
type Sound struct {
	mu      sync.Mutex
	enabled bool
	log     *zap.Logger
}

// NewSound opens the speaker when enabled. Failure is logged, not returned:
// the game runs without audio.
func NewSound(enabled bool, log *zap.Logger) *Sound {
	s := &Sound{log: log}
	if !enabled {
		return s
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return s
	}
	s.enabled = true
	return s
}

func (s *Sound) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Subscribe plays a tone for kills, hits and game over.
func (s *Sound) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.EnemyKilled) { s.Play(KillTone) })
	event.Subscribe(bus, func(event.PlayerHit) { s.Play(HitTone) })
	event.Subscribe(bus, func(event.GameOver) { s.Play(GameOverTone) })
}

func (s *Sound) Play(t Tone) {
	if !s.Enabled() {
		return
	}
	st, err := t.Streamer()
	if err != nil {
		s.log.Debug("tone", zap.Error(err))
		return
	}
	speaker.Play(st)
}

// Streamer returns the tone's finite sample stream.
func (t Tone) Streamer() (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, t.Freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(sampleRate.N(t.Duration), sine), nil
}

// Close stops playback.
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		speaker.Clear()
		s.enabled = false
	}
}
