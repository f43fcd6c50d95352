package world

import (
	"math"
	"slices"

	"github.com/arenacore/arena/internal/vmath"
)

// Grid is a uniform spatial hash over entity indices. With a cell size equal
// to the query radius, the 3x3 neighbourhood of a cell covers every point
// within that radius. Rebuilt once per pass; concurrent Nearby calls are safe
// as long as nobody calls Insert or Reset.
type Grid struct {
	cell  float64
	cells map[cellKey][]int
}

type cellKey struct {
	cx, cy int
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{cell: cellSize, cells: make(map[cellKey][]int)}
}

func (g *Grid) key(p vmath.Vec2) cellKey {
	return cellKey{cx: int(math.Floor(p.X / g.cell)), cy: int(math.Floor(p.Y / g.cell))}
}

// Reset empties the grid and keeps its buckets for reuse.
func (g *Grid) Reset() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

// Insert records index i at position p.
func (g *Grid) Insert(i int, p vmath.Vec2) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], i)
}

// Nearby appends to buf every index in the 3x3 neighbourhood around p, in
// ascending order. Caller does fine-grained distance filtering.
func (g *Grid) Nearby(p vmath.Vec2, buf []int) []int {
	c := g.key(p)
	start := len(buf)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			buf = append(buf, g.cells[cellKey{cx: c.cx + dx, cy: c.cy + dy}]...)
		}
	}
	slices.Sort(buf[start:])
	return buf
}
