// Package hud formats the heads-up display: score, lives, frame rate, the
// game over banner and transient notices such as save results.
package hud

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoticeDuration is how long a notice stays on screen.
const NoticeDuration = 2500 * time.Millisecond

const (
	GameOverText   = "GAME OVER"
	PausedText     = "PAUSED"
	RestartPrompt  = "PRESS R TO RESTART"
	PauseHelpText  = "ESC RESUME  F5 SAVE  Q QUIT"
	fpsUpdatePause = time.Second
)

// Status is the per-frame data the HUD shows.
type Status struct {
	Score    int
	Lives    int
	GameOver bool
	Paused   bool
}

// HUD renders status lines through an x/text printer so numbers follow the
// locale's grouping.
type HUD struct {
	p      *message.Printer
	fps    FPSCounter
	notice string
	left   time.Duration
}

func New(tag language.Tag) *HUD {
	return &HUD{p: message.NewPrinter(tag)}
}

func (h *HUD) Score(n int) string { return h.p.Sprintf("Score: %d", n) }
func (h *HUD) Lives(n int) string { return h.p.Sprintf("Lives: %d", n) }
func (h *HUD) FPS() string        { return h.p.Sprintf("FPS: %.1f", h.fps.Rate()) }

// Saved formats the outcome of a save.
func (h *HUD) Saved(name string, err error) string {
	if err != nil {
		return h.p.Sprintf("Save failed: %v", err)
	}
	return h.p.Sprintf("Saved to %s", name)
}

// Notify shows msg for NoticeDuration.
func (h *HUD) Notify(msg string) {
	h.notice = msg
	h.left = NoticeDuration
}

// Notice returns the active notice, or "" once it has expired.
func (h *HUD) Notice() string {
	if h.left <= 0 {
		return ""
	}
	return h.notice
}

// Tick advances the frame counter and the notice timer.
func (h *HUD) Tick(dt time.Duration) {
	h.fps.Tick(dt)
	if h.left > 0 {
		h.left = max(0, h.left-dt)
	}
}

// Lines returns the corner lines: score and lives on the left, FPS on the right.
func (h *HUD) Lines(st Status) (left []string, right string) {
	return []string{h.Score(st.Score), h.Lives(st.Lives)}, h.FPS()
}

// Banner returns the centred overlay lines, if any.
func (h *HUD) Banner(st Status) []string {
	switch {
	case st.GameOver:
		return []string{GameOverText, RestartPrompt}
	case st.Paused:
		return []string{PausedText, PauseHelpText}
	}
	return nil
}

// FPSCounter averages frames over windows of at least one second.
type FPSCounter struct {
	frames  int
	elapsed time.Duration
	rate    float64
}

// Tick counts one frame of dt.
func (c *FPSCounter) Tick(dt time.Duration) {
	c.frames++
	c.elapsed += dt
	if c.elapsed >= fpsUpdatePause {
		c.rate = float64(c.frames) / c.elapsed.Seconds()
		c.frames = 0
		c.elapsed = 0
	}
}

// Rate is the frame rate of the last completed window.
func (c *FPSCounter) Rate() float64 { return c.rate }
