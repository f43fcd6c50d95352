package frontend

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/arenacore/arena/internal/system"
	"github.com/arenacore/arena/internal/vmath"
)

// One terminal cell covers CellWidth by CellHeight world units.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// DefaultKeyHold is how long a key counts as held after its last press or
// repeat. Terminals report presses, never releases.
const DefaultKeyHold = 150 * time.Millisecond

// Command is a non-gameplay request from the keyboard.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdSave
	CmdRestart
	CmdResize
)

// Terminal is the tcell-backed input layer. Events are read on a background
// goroutine and applied on the frame goroutine by Frame, so the system.Input
// methods need no locking.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	hold   time.Duration

	now      time.Time
	lastSeen map[system.Key]time.Time
	pressed  map[system.Key]bool
	just     map[system.Key]bool
	buttons  tcell.ButtonMask
	cursor   vmath.Vec2
}

var _ system.Input = (*Terminal)(nil)

func NewTerminal(screen tcell.Screen, hold time.Duration) *Terminal {
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	return &Terminal{
		screen:   screen,
		events:   make(chan tcell.Event, 100),
		hold:     hold,
		lastSeen: make(map[system.Key]time.Time),
		pressed:  make(map[system.Key]bool),
		just:     make(map[system.Key]bool),
	}
}

// Listen starts the event reader. It ends when the screen is finalized.
func (t *Terminal) Listen() {
	ch := t.events
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(ch)
				return
			}
			ch <- ev
		}
	}()
}

// Frame applies every queued event as of now and returns the commands they
// produced. Keys pressed since the previous Frame become just-pressed.
func (t *Terminal) Frame(now time.Time) []Command {
	t.now = now
	clear(t.just)
	var cmds []Command
drain:
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				t.events = nil
				cmds = append(cmds, CmdQuit)
				break drain
			}
			if c := t.Handle(ev); c != CmdNone {
				cmds = append(cmds, c)
			}
		default:
			break drain
		}
	}
	for k := range t.pressed {
		t.just[k] = true
	}
	clear(t.pressed)
	return cmds
}

// Handle applies one event at the current frame time.
func (t *Terminal) Handle(ev tcell.Event) Command {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.cursor = CellToWorld(x, y)
		t.buttons = ev.Buttons()
	case *tcell.EventResize:
		return CmdResize
	}
	return CmdNone
}

func (t *Terminal) handleKey(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyEscape:
		return CmdPause
	case tcell.KeyF5:
		return CmdSave
	case tcell.KeyUp:
		t.press(system.KeyUp)
	case tcell.KeyDown:
		t.press(system.KeyDown)
	case tcell.KeyLeft:
		t.press(system.KeyLeft)
	case tcell.KeyRight:
		t.press(system.KeyRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return CmdQuit
		case 'r', 'R':
			return CmdRestart
		case 'p', 'P':
			return CmdPause
		case 'w', 'W':
			t.press(system.KeyUp)
		case 's', 'S':
			t.press(system.KeyDown)
		case 'a', 'A':
			t.press(system.KeyLeft)
		case 'd', 'D':
			t.press(system.KeyRight)
		case ' ':
			t.press(system.KeyFire)
		}
	}
	return CmdNone
}

// press records a press or auto-repeat. Only the first press of a hold is an
// edge.
func (t *Terminal) press(k system.Key) {
	if !t.KeyHeld(k) {
		t.pressed[k] = true
	}
	t.lastSeen[k] = t.now
}

func (t *Terminal) KeyHeld(k system.Key) bool {
	seen, ok := t.lastSeen[k]
	return ok && t.now.Sub(seen) < t.hold
}

func (t *Terminal) KeyJustPressed(k system.Key) bool { return t.just[k] }

func (t *Terminal) MouseHeld(button int) bool {
	switch button {
	case system.MousePrimary:
		return t.buttons&tcell.Button1 != 0
	case system.MouseSecondary:
		return t.buttons&tcell.Button2 != 0
	}
	return false
}

func (t *Terminal) Cursor() vmath.Vec2 { return t.cursor }

// CellToWorld maps a cell to the world point at its centre.
func CellToWorld(col, row int) vmath.Vec2 {
	return vmath.V((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

// WorldToCell maps a world point to the cell containing it.
func WorldToCell(p vmath.Vec2) (col, row int) {
	return int(p.X / CellWidth), int(p.Y / CellHeight)
}
