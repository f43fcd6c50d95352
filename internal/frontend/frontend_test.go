package frontend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"

	"github.com/arenacore/arena/internal/core/event"
	"github.com/arenacore/arena/internal/hud"
	"github.com/arenacore/arena/internal/system"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

func newTestTerminal() *Terminal {
	return NewTerminal(nil, 100*time.Millisecond)
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestTerminalHeldKeysExpire(t *testing.T) {
	term := newTestTerminal()
	t0 := time.Unix(100, 0)

	term.events <- key(tcell.KeyLeft, 0)
	term.Frame(t0)
	assert.True(t, term.KeyHeld(system.KeyLeft))
	assert.True(t, term.KeyJustPressed(system.KeyLeft))

	term.Frame(t0.Add(50 * time.Millisecond))
	assert.True(t, term.KeyHeld(system.KeyLeft))
	assert.False(t, term.KeyJustPressed(system.KeyLeft))

	term.Frame(t0.Add(150 * time.Millisecond))
	assert.False(t, term.KeyHeld(system.KeyLeft))
}

func TestTerminalRepeatIsNotAnEdge(t *testing.T) {
	term := newTestTerminal()
	t0 := time.Unix(100, 0)

	term.events <- key(tcell.KeyRune, ' ')
	term.Frame(t0)
	assert.True(t, term.KeyJustPressed(system.KeyFire))

	term.events <- key(tcell.KeyRune, ' ')
	term.Frame(t0.Add(30 * time.Millisecond))
	assert.False(t, term.KeyJustPressed(system.KeyFire))
	assert.True(t, term.KeyHeld(system.KeyFire))

	term.events <- key(tcell.KeyRune, ' ')
	term.Frame(t0.Add(time.Second))
	assert.True(t, term.KeyJustPressed(system.KeyFire))
}

func TestTerminalCommands(t *testing.T) {
	term := newTestTerminal()
	term.events <- key(tcell.KeyF5, 0)
	term.events <- key(tcell.KeyEscape, 0)
	term.events <- key(tcell.KeyRune, 'r')
	term.events <- key(tcell.KeyRune, 'q')
	term.events <- tcell.NewEventResize(80, 24)

	cmds := term.Frame(time.Unix(1, 0))
	assert.Equal(t, []Command{CmdSave, CmdPause, CmdRestart, CmdQuit, CmdResize}, cmds)
}

func TestTerminalMouse(t *testing.T) {
	term := newTestTerminal()
	term.events <- tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone)
	term.Frame(time.Unix(1, 0))

	assert.Equal(t, vmath.V(35, 50), term.Cursor())
	assert.True(t, term.MouseHeld(system.MousePrimary))
	assert.False(t, term.MouseHeld(system.MouseSecondary))

	term.events <- tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone)
	term.Frame(time.Unix(2, 0))
	assert.False(t, term.MouseHeld(system.MousePrimary))
}

func TestTerminalClosedQueueQuits(t *testing.T) {
	term := newTestTerminal()
	close(term.events)
	assert.Equal(t, []Command{CmdQuit}, term.Frame(time.Unix(1, 0)))
	assert.Empty(t, term.Frame(time.Unix(2, 0)))
}

func TestCellMapping(t *testing.T) {
	col, row := WorldToCell(CellToWorld(7, 4))
	assert.Equal(t, 7, col)
	assert.Equal(t, 4, row)
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func contentAt(screen tcell.Screen, col, row int) rune {
	r, _, _, _ := screen.GetContent(col, row)
	return r
}

func TestRendererDrawsEntitiesAndHUD(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen)

	w, h := r.WorldSize()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)

	ws := world.New(world.Options{Width: w, Height: h, Seed: 1}, zaptest.NewLogger(t))
	ws.SpawnPlayer(vmath.V(405, 305), vmath.Vec2{})
	ws.SpawnEnemy(vmath.V(100, 100), vmath.Vec2{})
	ws.SpawnBullet(vmath.V(600, 400), vmath.Vec2{}, 0)

	hd := hud.New(language.English)
	r.Draw(Frame{State: ws, HUD: hd, Status: hud.Status{Score: 5, Lives: 3}, Aim: vmath.V(405, 245)})

	assert.Equal(t, '@', contentAt(screen, 40, 15))
	assert.Equal(t, '#', contentAt(screen, 10, 5), "enemy 20x20 at (100,100) covers cols 10-11")
	assert.Equal(t, '#', contentAt(screen, 11, 5))
	assert.Equal(t, '*', contentAt(screen, 60, 20))
	assert.Equal(t, '+', contentAt(screen, 40, 12))
	assert.Equal(t, 'S', contentAt(screen, 0, 0))
	assert.Equal(t, 'L', contentAt(screen, 0, 1))
}

func TestRendererGameOverBanner(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen)
	ws := world.New(world.Options{Width: 800, Height: 600, Seed: 1}, zaptest.NewLogger(t))

	r.Draw(Frame{State: ws, HUD: hud.New(language.English), Status: hud.Status{GameOver: true}})
	col := (80 - len(hud.GameOverText)) / 2
	assert.Equal(t, 'G', contentAt(screen, col, 14))
}

func TestToneLength(t *testing.T) {
	st, err := KillTone.Streamer()
	require.NoError(t, err)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := st.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, sampleRate.N(KillTone.Duration), total)
}

func TestDisabledSoundIsSilent(t *testing.T) {
	s := NewSound(false, zaptest.NewLogger(t))
	assert.False(t, s.Enabled())

	bus := event.NewBus()
	s.Subscribe(bus)
	event.Emit(bus, event.EnemyKilled{Score: 1})
	bus.SwapBuffers()
	bus.DispatchAll()
	s.Close()
}
