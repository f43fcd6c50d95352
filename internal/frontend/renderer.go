package frontend

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/arenacore/arena/internal/component"
	"github.com/arenacore/arena/internal/core/ecs"
	"github.com/arenacore/arena/internal/hud"
	"github.com/arenacore/arena/internal/vmath"
	"github.com/arenacore/arena/internal/world"
)

var (
	backgroundStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(26, 26, 51))
	hudStyle        = backgroundStyle.Foreground(tcell.ColorWhite)
	fpsStyle        = backgroundStyle.Foreground(tcell.NewRGBColor(255, 255, 51))
	bannerStyle     = backgroundStyle.Foreground(tcell.ColorRed).Bold(true)
	noticeStyle     = backgroundStyle.Foreground(tcell.NewRGBColor(230, 230, 51))
	playerStyle     = backgroundStyle.Foreground(tcell.ColorWhite).Bold(true)
)

// Glyphs per kind.
const (
	glyphPlayer     = '@'
	glyphEnemy      = '#'
	glyphBullet     = '*'
	glyphDecoration = '.'
	glyphCrosshair  = '+'
)

// Frame is everything drawn in one frame.
type Frame struct {
	State  *world.State
	HUD    *hud.HUD
	Status hud.Status
	Aim    vmath.Vec2
	Aiming bool
}

// Renderer draws the world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// WorldSize is the drawable area in world units.
func (r *Renderer) WorldSize() (width, height float64) {
	cols, rows := r.screen.Size()
	return float64(cols) * CellWidth, float64(rows) * CellHeight
}

// Draw renders f and shows the screen.
func (r *Renderer) Draw(f Frame) {
	r.screen.SetStyle(backgroundStyle)
	r.screen.Clear()

	ws := f.State
	ws.Transforms.Each(func(id ecs.EntityID, tf *component.Transform) {
		if !ws.ECS.Alive(id) {
			return
		}
		kind, _ := ws.Kind(id)
		shape, hasShape := ws.Shapes.Get(id)
		switch {
		case kind == component.KindPlayer:
			r.put(tf.Position, glyphPlayer, playerStyle)
		case hasShape && shape.Kind == component.ShapeRectangle:
			r.fillRect(tf.Position, shape.Size, glyphEnemy, shapeStyle(shape.Color))
		case hasShape:
			r.put(shape.Center(tf.Position), glyphFor(kind), shapeStyle(shape.Color))
		default:
			r.put(tf.Position, glyphFor(kind), hudStyle)
		}
	})

	crosshair := hudStyle.Dim(!f.Aiming).Bold(f.Aiming)
	r.put(f.Aim, glyphCrosshair, crosshair)

	if f.HUD != nil {
		r.drawHUD(f.HUD, f.Status)
	}
	r.screen.Show()
}

func (r *Renderer) drawHUD(h *hud.HUD, st hud.Status) {
	cols, rows := r.screen.Size()
	left, right := h.Lines(st)
	for i, line := range left {
		r.text(0, i, line, hudStyle)
	}
	r.text(cols-len(right), 0, right, fpsStyle)

	banner := h.Banner(st)
	top := rows/2 - len(banner)/2
	for i, line := range banner {
		style := hudStyle
		if i == 0 {
			style = bannerStyle
		}
		r.text((cols-len(line))/2, top+i, line, style)
	}

	if n := h.Notice(); n != "" {
		r.text((cols-len(n))/2, rows-2, n, noticeStyle)
	}
}

func (r *Renderer) put(p vmath.Vec2, glyph rune, style tcell.Style) {
	col, row := WorldToCell(p)
	r.cell(col, row, glyph, style)
}

// fillRect covers every cell the box [pos, pos+size) touches.
func (r *Renderer) fillRect(pos, size vmath.Vec2, glyph rune, style tcell.Style) {
	c0, r0 := WorldToCell(pos)
	c1 := int(math.Ceil((pos.X+size.X)/CellWidth)) - 1
	r1 := int(math.Ceil((pos.Y+size.Y)/CellHeight)) - 1
	for row := r0; row <= max(r0, r1); row++ {
		for col := c0; col <= max(c0, c1); col++ {
			r.cell(col, row, glyph, style)
		}
	}
}

func (r *Renderer) cell(col, row int, glyph rune, style tcell.Style) {
	cols, rows := r.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return
	}
	r.screen.SetContent(col, row, glyph, nil, style)
}

func (r *Renderer) text(col, row int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.cell(col+i, row, ch, style)
	}
}

func glyphFor(kind component.Kind) rune {
	switch kind {
	case component.KindPlayer:
		return glyphPlayer
	case component.KindEnemy:
		return glyphEnemy
	case component.KindBullet:
		return glyphBullet
	}
	return glyphDecoration
}

// shapeStyle maps an RGBA colour onto the background, premultiplying alpha.
func shapeStyle(c component.Color) tcell.Style {
	ch := func(v float64) int32 {
		return int32(math.Round(vmath.Clamp(v*c.A, 0, 1) * 255))
	}
	return backgroundStyle.Foreground(tcell.NewRGBColor(ch(c.R), ch(c.G), ch(c.B)))
}
