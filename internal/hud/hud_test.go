package hud

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestStatusText(t *testing.T) {
	h := New(language.English)
	left, right := h.Lines(Status{Score: 1234, Lives: 3})
	assert.Equal(t, []string{"Score: 1,234", "Lives: 3"}, left)
	assert.Equal(t, "FPS: 0.0", right)
}

func TestBanner(t *testing.T) {
	h := New(language.English)
	assert.Nil(t, h.Banner(Status{}))
	assert.Equal(t, GameOverText, h.Banner(Status{GameOver: true, Paused: true})[0])
	assert.Equal(t, PausedText, h.Banner(Status{Paused: true})[0])
}

func TestFPSWindow(t *testing.T) {
	var c FPSCounter
	for i := 0; i < 59; i++ {
		c.Tick(16 * time.Millisecond)
	}
	assert.Zero(t, c.Rate(), "window not complete")

	for i := 0; i < 4; i++ {
		c.Tick(16 * time.Millisecond)
	}
	assert.InDelta(t, 63/1.008, c.Rate(), 1e-9)
}

func TestNoticeExpires(t *testing.T) {
	h := New(language.English)
	h.Notify(h.Saved("save2.json", nil))
	assert.Equal(t, "Saved to save2.json", h.Notice())

	h.Tick(2 * time.Second)
	assert.NotEmpty(t, h.Notice())
	h.Tick(600 * time.Millisecond)
	assert.Empty(t, h.Notice())

	assert.Equal(t, "Save failed: disk full", h.Saved("", errors.New("disk full")))
}
