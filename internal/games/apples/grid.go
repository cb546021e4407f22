// Package apples implements the apple tile puzzle: drag a rectangle over a
// board of numbered apples, and if the numbers add up to the target the
// apples inside are picked.
package apples

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/apple-arcade/internal/core"
)

// Empty is the value of a cell whose apple has been picked.
const Empty = 0

// Coord addresses one cell of the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is a fixed-size board of tile values. A cell holds Empty or a value
// in the configured tile range.
type Grid struct {
	width  int
	height int
	cells  []int // row-major
}

// NewGrid creates an empty grid. Callers fill it with Fill.
func NewGrid(width, height int) Grid {
	return Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// GridFromRows builds a grid from explicit rows. All rows must have the
// same length and every value must be in [0,9].
func GridFromRows(rows [][]int) (Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Grid{}, fmt.Errorf("apples: grid must have at least one cell")
	}
	g := NewGrid(len(rows[0]), len(rows))
	for r, row := range rows {
		if len(row) != g.width {
			return Grid{}, fmt.Errorf("apples: row %d has %d cells, want %d", r, len(row), g.width)
		}
		for c, v := range row {
			if v < Empty || v > 9 {
				return Grid{}, fmt.Errorf("apples: cell (%d,%d) has value %d", r, c, v)
			}
			g.cells[r*g.width+c] = v
		}
	}
	return g, nil
}

// Fill sets every cell to an independent uniform value in [lo, hi].
func (g Grid) Fill(rng *rand.Rand, lo, hi int) {
	for i := range g.cells {
		g.cells[i] = lo + rng.Intn(hi-lo+1)
	}
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Bounds returns the whole grid as a rectangle (X = column, Y = row).
func (g Grid) Bounds() core.Rect {
	return core.NewRect(0, 0, g.width, g.height)
}

// InBounds reports whether (row, col) addresses a cell.
func (g Grid) InBounds(row, col int) bool {
	return g.Bounds().Contains(col, row)
}

// At returns the value at (row, col). Out-of-bounds reads return Empty.
func (g Grid) At(row, col int) int {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row*g.width+col]
}

// Sum adds up every cell inside r.
func (g Grid) Sum(r core.Rect) int {
	sum := 0
	g.each(r, func(i int) { sum += g.cells[i] })
	return sum
}

// Clear empties every cell inside r and returns how many held a tile.
func (g Grid) Clear(r core.Rect) int {
	picked := 0
	g.each(r, func(i int) {
		if g.cells[i] != Empty {
			picked++
			g.cells[i] = Empty
		}
	})
	return picked
}

// Remaining counts cells that still hold a tile.
func (g Grid) Remaining() int {
	n := 0
	for _, v := range g.cells {
		if v != Empty {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid as rows of values.
func (g Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for r := range rows {
		rows[r] = make([]int, g.width)
		copy(rows[r], g.cells[r*g.width:(r+1)*g.width])
	}
	return rows
}

// each calls fn with the cell index of every in-bounds cell inside r.
func (g Grid) each(r core.Rect, fn func(i int)) {
	for row := max(r.Y, 0); row < min(r.Bottom(), g.height); row++ {
		for col := max(r.X, 0); col < min(r.Right(), g.width); col++ {
			fn(row*g.width + col)
		}
	}
}
